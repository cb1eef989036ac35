package gorm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"

	gormRepo "github.com/avionmeals/backend/internal/infrastructure/persistence/gorm"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/sqlite"
)

func newTestStore(t *testing.T) *gormRepo.CreditStore {
	t.Helper()
	db, err := sqlite.SetupDatabase("", gormLogger.Silent)
	require.NoError(t, err)
	return gormRepo.NewCreditStore(db)
}

func TestCreditStoreFindMissing(t *testing.T) {
	store := newTestStore(t)

	account, err := store.Find(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestCreditStoreFindOrCreate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account, err := store.FindOrCreate(ctx, "user-1", 200)
	require.NoError(t, err)
	assert.Equal(t, "user-1", account.Identity)
	assert.Equal(t, 200, account.Total)
	assert.Equal(t, 0, account.Used)

	// Second call returns the existing row; the allowance argument is
	// ignored for identities that already have an account.
	account, err = store.FindOrCreate(ctx, "user-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 200, account.Total)
}

func TestCreditStoreConsume(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.FindOrCreate(ctx, "user-1", 2)
	require.NoError(t, err)

	ok, err := store.Consume(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Allowance exhausted: the conditional UPDATE matches no row.
	ok, err = store.Consume(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	account, err := store.Find(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, 2, account.Used)
}

func TestCreditStoreConsumeMissingAccount(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Consume(context.Background(), "never-seen", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreditStoreConsumeLargerThanRemaining(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.FindOrCreate(ctx, "user-1", 5)
	require.NoError(t, err)

	ok, err := store.Consume(ctx, "user-1", 6)
	require.NoError(t, err)
	assert.False(t, ok)

	account, err := store.Find(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, account.Used)
}

func TestCreditStoreGrant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Grant on a fresh identity creates the account.
	require.NoError(t, store.Grant(ctx, "user-1", 10))
	account, err := store.Find(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, 10, account.Total)

	// Grant on an existing account increments the total.
	require.NoError(t, store.Grant(ctx, "user-1", 5))
	account, err = store.Find(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 15, account.Total)
}
