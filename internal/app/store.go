package app

import (
	"context"
	"fmt"
	"log/slog"

	"productos/internal/config"
	"productos/internal/database"
	"productos/internal/repositories"
)

// Store is an opened product repository and the function releasing its
// underlying connection.
type Store struct {
	Products repositories.ProductRepository
	Close    func(context.Context) error
}

// OpenStore connects the backend selected by cfg.Driver and prepares its
// schema (tables or indexes).
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenSQL(cfg)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewGORMProductRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = database.CloseSQL(db)
			return nil, err
		}
		log.Info("relational store ready", slog.String("driver", cfg.Driver))
		return &Store{
			Products: repo,
			Close:    func(context.Context) error { return database.CloseSQL(db) },
		}, nil

	case config.DriverMongo:
		client, err := database.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewMongoProductRepository(database.ProductsCollection(client, cfg))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info("document store ready",
			slog.String("database", cfg.MongoDatabase),
			slog.String("collection", cfg.MongoCollection),
		)
		return &Store{
			Products: repo,
			Close:    client.Disconnect,
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return &Store{
			Products: repositories.NewMemoryProductRepository(),
			Close:    func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
