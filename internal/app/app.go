// Package app wires configuration into a ready ledger service.
package app

import (
	"context"
	"fmt"

	"freelance-ledger/internal/blob"
	"freelance-ledger/internal/config"
	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/storage"
	"freelance-ledger/internal/storage/postgres"
)

// Store is a ledger.Store that owns a connection.
type Store interface {
	ledger.Store
	Ping(ctx context.Context) error
	Close() error
}

// App bundles the long-lived dependencies of a process.
type App struct {
	Config  *config.Config
	Log     logging.Logger
	Store   Store
	Blobs   *blob.Store
	Service *ledger.Service
}

// OpenStore connects to the configured database.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	default:
		db, err := storage.NewDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	}
}

// New opens the store and blob directory. Seeding the catalog is left to
// the caller.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	blobs, err := blob.NewStore(cfg.Blob.Dir, cfg.Blob.BaseURL)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := ledger.New(store,
		ledger.WithLogger(log),
		ledger.WithBlobStore(blobs),
		ledger.WithLimits(cfg.Query.SearchLimit, cfg.Query.ListLimit),
		ledger.WithReportYears(cfg.Reports.Years),
	)
	log.Info("ledger ready",
		logging.F(logging.FieldDriver, cfg.Storage.Driver))
	return &App{Config: cfg, Log: log, Store: store, Blobs: blobs, Service: svc}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
