package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"itemstore/internal/database"
	"itemstore/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type itemsConfig struct {
	Items []models.Item `yaml:"items"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		itemsPath = flag.String("items", "configs/items.yaml", "path to items.yaml")
		dbPath    = flag.String("db", "./data/items.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*itemsPath)
	if err != nil {
		return fmt.Errorf("read items: %w", err)
	}
	var cfg itemsConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse items: %w", err)
	}
	if len(cfg.Items) == 0 {
		return fmt.Errorf("no items in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, it := range existing {
		seen[it.Name] = true
	}

	created := 0
	skipped := 0
	for _, it := range cfg.Items {
		if seen[it.Name] {
			skipped++
			continue
		}
		item := it
		if err := db.CreateItem(ctx, &item); err != nil {
			return fmt.Errorf("create item %q: %w", it.Name, err)
		}
		created++
	}

	logger.Info().Int("created", created).Int("skipped", skipped).Msg("seed finished")
	return nil
}
