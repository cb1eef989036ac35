package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/ports/outbound"
)

type fakeSubscriptionRepo struct {
	rows map[string]*outbound.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{rows: make(map[string]*outbound.Subscription)}
}

func (r *fakeSubscriptionRepo) Find(ctx context.Context, identity string) (*outbound.Subscription, error) {
	sub, ok := r.rows[identity]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Upsert(ctx context.Context, sub *outbound.Subscription) error {
	copied := *sub
	r.rows[sub.Identity] = &copied
	return nil
}

func TestGetStatusDefaultsToFree(t *testing.T) {
	service := NewService(newFakeSubscriptionRepo(), zap.NewNop())

	status, err := service.GetStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "free", status.Status)
	assert.Nil(t, status.ExpiryDate)
}

func TestUpgradeActivates(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	service := NewService(repo, zap.NewNop())
	ctx := context.Background()

	status, err := service.Upgrade(ctx, "user-1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "active", status.Status)
	assert.Equal(t, "apple", status.Provider)
	require.NotNil(t, status.ExpiryDate)

	// Default duration is 30 days.
	expected := time.Now().UTC().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *status.ExpiryDate, time.Minute)

	read, err := service.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "active", read.Status)
}

func TestExpiredSubscriptionReadsAsExpired(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	service := NewService(repo, zap.NewNop())
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	_, err := service.Restore(ctx, "user-1", "google", past)
	require.NoError(t, err)

	status, err := service.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "expired", status.Status)
	assert.Equal(t, "google", status.Provider)
}

func TestRestoreRequiresProvider(t *testing.T) {
	service := NewService(newFakeSubscriptionRepo(), zap.NewNop())

	_, err := service.Restore(context.Background(), "user-1", "", time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestVerifyReceipt(t *testing.T) {
	service := NewService(newFakeSubscriptionRepo(), zap.NewNop())

	assert.True(t, service.VerifyReceipt(context.Background(), "apple", "base64-receipt"))
	assert.False(t, service.VerifyReceipt(context.Background(), "apple", ""))
}
