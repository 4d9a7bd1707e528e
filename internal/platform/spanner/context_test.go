package spanner

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionContext_Empty(t *testing.T) {
	ctx := context.Background()

	_, ok := ReadWriteTxFromContext(ctx)
	assert.False(t, ok)
	_, ok = ReadTransactionFromContext(ctx)
	assert.False(t, ok)
}

func TestTransactionContext_ReadWrite(t *testing.T) {
	tx := &spanner.ReadWriteTransaction{}

	ctx, err := withReadWriteTx(context.Background(), tx)
	require.NoError(t, err)

	got, ok := ReadWriteTxFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, tx, got)

	reader, ok := ReadTransactionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, Reader(tx), reader)
}

func TestTransactionContext_ReadOnlyIsNotWritable(t *testing.T) {
	ctx, err := withReadOnlyTx(context.Background(), &spanner.ReadOnlyTransaction{})
	require.NoError(t, err)

	_, ok := ReadWriteTxFromContext(ctx)
	assert.False(t, ok)
	_, ok = ReadTransactionFromContext(ctx)
	assert.True(t, ok)
}

func TestTransactionContext_NestedIsRejected(t *testing.T) {
	ctx, err := withReadOnlyTx(context.Background(), &spanner.ReadOnlyTransaction{})
	require.NoError(t, err)

	_, err = withReadWriteTx(ctx, &spanner.ReadWriteTransaction{})
	assert.ErrorIs(t, err, ErrNestedTransaction)
	_, err = withReadOnlyTx(ctx, &spanner.ReadOnlyTransaction{})
	assert.ErrorIs(t, err, ErrNestedTransaction)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{ProjectID: "p", InstanceID: "i", DatabaseID: "d"}

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "projects/p/instances/i/databases/d", cfg.DSN())
	assert.Error(t, Config{ProjectID: "p"}.Validate())
}
