// Package kv stores the folder hierarchy in an embedded badger database.
//
// Records are JSON values under "folder:<id>" and "doc:<id>". Ordering
// indexes carry a zero-padded creation timestamp in the key so a prefix
// scan already yields created_at order with ties broken by id.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"folio/internal/domain/repositories"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger handle and serializes read-write transactions
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// writeMu admits one read-write transaction at a time. Cycle checks
	// and root creation rely on seeing every committed write.
	writeMu sync.Mutex
}

// Open opens the database at path. An empty path keeps everything in memory.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	logger.Info("badger store opened", "path", path, "in_memory", path == "")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

type txnContextKey struct{}

func withTxn(ctx context.Context, txn *badger.Txn) context.Context {
	return context.WithValue(ctx, txnContextKey{}, txn)
}

func txnFrom(ctx context.Context) *badger.Txn {
	txn, _ := ctx.Value(txnContextKey{}).(*badger.Txn)
	return txn
}

// view runs fn in the context transaction or a fresh read-only one
func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn := txnFrom(ctx); txn != nil {
		return fn(txn)
	}
	return s.db.View(fn)
}

// update runs fn in the context transaction or a fresh serialized one
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn := txnFrom(ctx); txn != nil {
		return fn(txn)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.db.Update(fn)
}

// TransactionManager implements repositories.TransactionManager on a Store
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn in one read-write transaction. Nested calls join the outer
// transaction; nothing is written unless fn returns nil and commit succeeds.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if txnFrom(ctx) != nil {
		return fn(ctx)
	}

	tm.store.writeMu.Lock()
	defer tm.store.writeMu.Unlock()

	txn := tm.store.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(withTxn(ctx, txn)); err != nil {
		return err
	}

	if err := txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			tm.store.logger.Warn("transaction conflict", "error", err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
