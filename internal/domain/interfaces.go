package domain

import (
	"context"

	"itemstore/internal/models"
)

// ItemRepository is the storage contract the item service depends on.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	UpdateItemPartial(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// ItemService is what the API layer calls into.
type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	UpdateItemPartial(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}
