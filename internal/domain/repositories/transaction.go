package repositories

import "context"

// TxFn is the unit of work passed to ExecTx. It must do all of its store
// access through the ctx it receives.
type TxFn func(ctx context.Context) error

// TransactionManager groups store writes so they land together or not at all.
//
// Calling ExecTx with a ctx that already carries a transaction runs fn inside
// that transaction; only the outermost call commits.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
