package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStoreVerifyConsumes(t *testing.T) {
	store := NewOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "+911234567890", "123456", 5*time.Minute))

	ok, err := store.Verify(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second use of the same code fails.
	ok, err = store.Verify(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPStoreWrongCode(t *testing.T) {
	store := NewOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "+911234567890", "123456", 5*time.Minute))

	ok, err := store.Verify(ctx, "+911234567890", "654321")
	require.NoError(t, err)
	assert.False(t, ok)

	// A wrong attempt does not consume the code.
	ok, err = store.Verify(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPStoreExpiry(t *testing.T) {
	store := NewOTPStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "+911234567890", "123456", 5*time.Minute))

	now = now.Add(5*time.Minute + time.Second)

	ok, err := store.Verify(ctx, "+911234567890", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}
