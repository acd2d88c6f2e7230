package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/database"
	"github.com/at-ishikawa/recallr/internal/learning"
)

// store is implemented by every learning item backend.
type store interface {
	learning.Repository
	learning.RawReader
	learning.Remover
	cli.Rewriter
}

var (
	_ store = (*learning.YAMLRepository)(nil)
	_ store = (*learning.DBRepository)(nil)
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newNormalizer(cfg *config.Config) learning.Normalizer {
	return learning.Normalizer{
		Strict: cfg.Learnings.StrictDifficulty,
		Logger: slog.Default(),
	}
}

func openYAMLStore(cfg *config.Config) *learning.YAMLRepository {
	return learning.NewYAMLRepository(cfg.Learnings.Path(), newNormalizer(cfg))
}

// openDBStore connects to the configured database and applies the migrations.
// The returned function closes the connection.
func openDBStore(ctx context.Context, cfg *config.Config) (*learning.DBRepository, func(), error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Connect() > %w", err)
	}
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	slog.Default().Debug("Applied migrations", "files", applied)

	return learning.NewDBRepository(db, newNormalizer(cfg)), func() {
		_ = db.Close()
	}, nil
}

// openStore opens the backend selected by store.backend.
func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	if cfg.Store.Backend == config.StoreBackendDatabase {
		return openDBStore(ctx, cfg)
	}
	return openYAMLStore(cfg), func() {}, nil
}

// withStore loads the configuration, opens the store and passes it to fn.
func withStore(ctx context.Context, fn func(cfg *config.Config, s store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	s, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(cfg, s)
}
