package service

import (
	"context"
	"errors"

	"itemstore/internal/database"
	"itemstore/internal/domain"
	"itemstore/internal/metrics"
	"itemstore/internal/models"

	"github.com/rs/zerolog"
)

// ItemService is the CRUD layer over the item store. Every store-level
// failure surfaces as *database.CRUDError after the underlying transaction
// has been rolled back; not-found conditions pass through unchanged.
type ItemService struct {
	repo domain.ItemRepository
	log  zerolog.Logger
}

func NewItemService(repo domain.ItemRepository, logger *zerolog.Logger) *ItemService {
	serviceLogger := zerolog.Nop()
	if logger != nil {
		serviceLogger = logger.With().Str("component", "items").Logger()
	}
	return &ItemService{repo: repo, log: serviceLogger}
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) error {
	s.log.Info().Str("name", item.Name).Msg("creating item")

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return s.crudError("create", err)
	}

	s.log.Info().Int64("id", item.ID).Msg("item created")
	return nil
}

func (s *ItemService) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if errors.Is(err, database.ErrItemNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.crudError("get", err)
	}
	return item, nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, s.crudError("list", err)
	}
	return items, nil
}

func (s *ItemService) UpdateItemPartial(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	s.log.Info().Int64("id", id).Msg("updating item")

	item, err := s.repo.UpdateItemPartial(ctx, id, patch)
	if errors.Is(err, database.ErrItemNotFound) {
		s.log.Warn().Int64("id", id).Msg("item not found for update")
		return nil, err
	}
	if err != nil {
		return nil, s.crudError("update", err)
	}

	s.log.Info().Int64("id", id).Msg("item updated")
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	s.log.Info().Int64("id", id).Msg("deleting item")

	err := s.repo.DeleteItem(ctx, id)
	if errors.Is(err, database.ErrItemNotFound) {
		s.log.Warn().Int64("id", id).Msg("item not found for delete")
		return err
	}
	if err != nil {
		return s.crudError("delete", err)
	}

	s.log.Info().Int64("id", id).Msg("item deleted")
	return nil
}

func (s *ItemService) crudError(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("item store operation failed")
	metrics.IncCRUDError(op)
	return &database.CRUDError{Op: op, Err: err}
}
