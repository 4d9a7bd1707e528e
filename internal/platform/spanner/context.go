package spanner

import (
	"context"

	"cloud.google.com/go/spanner"
)

// Reader is the read API shared by read-only and read-write transactions.
type Reader interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

var (
	_ Reader = (*spanner.ReadOnlyTransaction)(nil)
	_ Reader = (*spanner.ReadWriteTransaction)(nil)
)

type readWriteTxKey struct{}
type readOnlyTxKey struct{}

func inTransaction(ctx context.Context) bool {
	if _, ok := ReadWriteTxFromContext(ctx); ok {
		return true
	}
	_, ok := ctx.Value(readOnlyTxKey{}).(*spanner.ReadOnlyTransaction)
	return ok
}

func withReadWriteTx(ctx context.Context, tx *spanner.ReadWriteTransaction) (context.Context, error) {
	if inTransaction(ctx) {
		return nil, ErrNestedTransaction
	}
	return context.WithValue(ctx, readWriteTxKey{}, tx), nil
}

func withReadOnlyTx(ctx context.Context, tx *spanner.ReadOnlyTransaction) (context.Context, error) {
	if inTransaction(ctx) {
		return nil, ErrNestedTransaction
	}
	return context.WithValue(ctx, readOnlyTxKey{}, tx), nil
}

// ReadWriteTxFromContext extracts the read-write transaction, if any.
func ReadWriteTxFromContext(ctx context.Context) (*spanner.ReadWriteTransaction, bool) {
	tx, ok := ctx.Value(readWriteTxKey{}).(*spanner.ReadWriteTransaction)
	return tx, ok
}

// ReadTransactionFromContext returns whichever transaction the context
// carries, for reads.
func ReadTransactionFromContext(ctx context.Context) (Reader, bool) {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return tx, true
	}
	if tx, ok := ctx.Value(readOnlyTxKey{}).(*spanner.ReadOnlyTransaction); ok {
		return tx, true
	}
	return nil, false
}
