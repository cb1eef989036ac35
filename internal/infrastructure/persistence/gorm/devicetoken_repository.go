package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avionmeals/backend/internal/ports/outbound"
)

// DeviceTokenRepository implements outbound.DeviceTokenRepository on GORM.
type DeviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a device token repository.
func NewDeviceTokenRepository(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// Register stores a push token for the identity. Re-registering the same
// token is a no-op.
func (r *DeviceTokenRepository) Register(ctx context.Context, t *outbound.DeviceToken) error {
	model := DeviceTokenModel{
		ID:        t.ID,
		Identity:  t.Identity,
		Token:     t.Token,
		Platform:  t.Platform,
		CreatedAt: t.CreatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}, {Name: "token"}},
			DoNothing: true,
		}).
		Create(&model).Error
}

// Replace swaps an expired token for a fresh one in place. Returns nil when
// the old token is not registered for the identity.
func (r *DeviceTokenRepository) Replace(ctx context.Context, identity, oldToken, newToken string) (*outbound.DeviceToken, error) {
	var model DeviceTokenModel
	err := r.db.WithContext(ctx).
		Where("identity = ? AND token = ?", identity, oldToken).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	model.Token = newToken
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, err
	}

	return &outbound.DeviceToken{
		ID:        model.ID,
		Identity:  model.Identity,
		Token:     model.Token,
		Platform:  model.Platform,
		CreatedAt: model.CreatedAt,
	}, nil
}

// Remove deletes a registered token. Removing an unknown token is not an
// error.
func (r *DeviceTokenRepository) Remove(ctx context.Context, identity, token string) error {
	return r.db.WithContext(ctx).
		Where("identity = ? AND token = ?", identity, token).
		Delete(&DeviceTokenModel{}).Error
}
