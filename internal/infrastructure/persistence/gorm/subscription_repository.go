package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avionmeals/backend/internal/ports/outbound"
)

// SubscriptionRepository implements outbound.SubscriptionRepository on GORM.
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a subscription repository.
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Find returns the subscription for the identity, or nil when none exists.
func (r *SubscriptionRepository) Find(ctx context.Context, identity string) (*outbound.Subscription, error) {
	var model SubscriptionModel
	err := r.db.WithContext(ctx).Where("identity = ?", identity).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &outbound.Subscription{
		ID:         model.ID,
		Identity:   model.Identity,
		Status:     model.Status,
		Provider:   model.Provider,
		ExpiryDate: model.ExpiryDate,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}

// Upsert writes the subscription state, replacing any existing row for the
// identity.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *outbound.Subscription) error {
	model := SubscriptionModel{
		ID:         sub.ID,
		Identity:   sub.Identity,
		Status:     sub.Status,
		Provider:   sub.Provider,
		ExpiryDate: sub.ExpiryDate,
		UpdatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "provider", "expiry_date", "updated_at"}),
		}).
		Create(&model).Error
}
