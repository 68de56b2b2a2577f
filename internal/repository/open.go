// Package repository selects and opens the configured node store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/config"
	"folio/internal/domain/repositories"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	"folio/internal/repository/kv"
	"folio/internal/repository/postgres"
	postgresDocsys "folio/internal/repository/postgres/docsystem"
)

// Stores bundles the repositories of one backend
type Stores struct {
	Folders   docsysRepo.FolderRepository
	Documents docsysRepo.DocumentRepository
	Listing   docsysRepo.ListingRepository
	Tx        repositories.TransactionManager

	closeFn func()
}

// Close releases the backend
func (s *Stores) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open connects the backend named by cfg.StorageDriver. The postgres
// schema is created when missing.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "driver", cfg.StorageDriver, "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		return &Stores{
			Folders:   postgresDocsys.NewFolderRepository(repoConfig),
			Documents: postgresDocsys.NewDocumentRepository(repoConfig),
			Listing:   postgresDocsys.NewListingRepository(repoConfig),
			Tx:        postgres.NewTransactionManager(pool, logger),
			closeFn:   pool.Close,
		}, nil

	case config.StorageDriverBadger:
		store, err := kv.Open(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		return NewKVStores(store), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewKVStores wires the badger repositories around an open store
func NewKVStores(store *kv.Store) *Stores {
	return &Stores{
		Folders:   kv.NewFolderRepository(store),
		Documents: kv.NewDocumentRepository(store),
		Listing:   kv.NewListingRepository(store),
		Tx:        kv.NewTransactionManager(store),
		closeFn: func() {
			_ = store.Close()
		},
	}
}
