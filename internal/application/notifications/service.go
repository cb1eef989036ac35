// Package notifications manages push-notification device tokens.
package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// Service handles device token registration for FCM/APNs delivery.
type Service struct {
	tokens outbound.DeviceTokenRepository
	logger *zap.Logger
}

// NewService creates a notifications service.
func NewService(tokens outbound.DeviceTokenRepository, logger *zap.Logger) *Service {
	return &Service{tokens: tokens, logger: logger}
}

// Register stores a device token for the identity.
func (s *Service) Register(ctx context.Context, identity, token, platform string) (*outbound.DeviceToken, error) {
	if token == "" || platform == "" {
		return nil, errors.NewInvalidInput("device_token and platform are required")
	}

	record := &outbound.DeviceToken{
		ID:        uuid.New(),
		Identity:  identity,
		Token:     token,
		Platform:  platform,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.Register(ctx, record); err != nil {
		return nil, errors.NewDatabaseError("register device token", err)
	}

	s.logger.Info("device token registered",
		zap.String("identity", identity),
		zap.String("platform", platform),
	)
	return record, nil
}

// Update swaps an old token for a new one, as happens when the push
// provider rotates tokens on the device.
func (s *Service) Update(ctx context.Context, identity, oldToken, newToken string) (*outbound.DeviceToken, error) {
	if oldToken == "" || newToken == "" {
		return nil, errors.NewInvalidInput("old_token and new_token are required")
	}

	record, err := s.tokens.Replace(ctx, identity, oldToken, newToken)
	if err != nil {
		return nil, errors.NewDatabaseError("replace device token", err)
	}
	if record == nil {
		return nil, errors.NewNotFound("Device token not found")
	}
	return record, nil
}

// Remove deletes a device token.
func (s *Service) Remove(ctx context.Context, identity, token string) error {
	if token == "" {
		return errors.NewInvalidInput("device_token is required")
	}
	if err := s.tokens.Remove(ctx, identity, token); err != nil {
		return errors.NewDatabaseError("remove device token", err)
	}
	return nil
}
