package spanner

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/rai/userdirectory/modules/shared/transaction"
)

// ErrNestedTransaction is returned by Execute when ctx already carries a
// transaction. Spanner has no nested transactions; running a second one
// would commit independently of the first.
var ErrNestedTransaction = errors.New("nested transaction detected: Cloud Spanner does not support nested transactions")

// ReadWriteTransactionScope runs write use cases in a Spanner read-write
// transaction.
type ReadWriteTransactionScope struct {
	client *spanner.Client
	opts   spanner.TransactionOptions
}

// NewReadWriteTransactionScope returns a scope whose transactions carry tag,
// so they can be told apart in Spanner's transaction statistics.
func NewReadWriteTransactionScope(client *spanner.Client, tag string) *ReadWriteTransactionScope {
	return &ReadWriteTransactionScope{
		client: client,
		opts:   spanner.TransactionOptions{TransactionTag: tag},
	}
}

// Execute commits when fn returns nil. Repositories reach the transaction
// through ReadWriteTxFromContext.
//
// Spanner retries fn on Aborted, so fn must not publish events; write use
// cases publish after Execute returns.
func (s *ReadWriteTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := s.client.ReadWriteTransactionWithOptions(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		txCtx, err := withReadWriteTx(ctx, tx)
		if err != nil {
			return err
		}
		return fn(txCtx)
	}, s.opts)
	return err
}

// ReadOnlyTransactionScope gives queries a consistent view across several
// reads.
type ReadOnlyTransactionScope struct {
	client    *spanner.Client
	staleness time.Duration
}

// NewReadOnlyTransactionScope returns a read-only scope. A positive
// staleness reads at that exact age instead of strongly, trading freshness
// for lower latency.
func NewReadOnlyTransactionScope(client *spanner.Client, staleness time.Duration) *ReadOnlyTransactionScope {
	return &ReadOnlyTransactionScope{client: client, staleness: staleness}
}

func (s *ReadOnlyTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := s.client.ReadOnlyTransaction()
	if s.staleness > 0 {
		tx = tx.WithTimestampBound(spanner.ExactStaleness(s.staleness))
	}
	defer tx.Close()

	txCtx, err := withReadOnlyTx(ctx, tx)
	if err != nil {
		return err
	}
	return fn(txCtx)
}

var (
	_ transaction.Scope = (*ReadWriteTransactionScope)(nil)
	_ transaction.Scope = (*ReadOnlyTransactionScope)(nil)
)
