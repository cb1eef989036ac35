// Package subscription handles the subscription lifecycle: status reads,
// store-driven upgrades, and restores from a prior purchase.
package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// Status is the externally visible subscription state.
type Status struct {
	Status     string     `json:"status"`
	Provider   string     `json:"provider,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// Service handles subscription operations.
type Service struct {
	subs   outbound.SubscriptionRepository
	logger *zap.Logger
}

// NewService creates a subscription service.
func NewService(subs outbound.SubscriptionRepository, logger *zap.Logger) *Service {
	return &Service{subs: subs, logger: logger}
}

// GetStatus returns the current state for the identity. No row means free;
// an active row past its expiry reads as expired without being rewritten.
func (s *Service) GetStatus(ctx context.Context, identity string) (Status, error) {
	sub, err := s.subs.Find(ctx, identity)
	if err != nil {
		return Status{}, errors.NewDatabaseError("find subscription", err)
	}
	if sub == nil {
		return Status{Status: "free"}, nil
	}

	active := sub.Status == "active" &&
		sub.ExpiryDate != nil &&
		sub.ExpiryDate.After(time.Now().UTC())

	status := "expired"
	if active {
		status = "active"
	}
	return Status{
		Status:     status,
		Provider:   sub.Provider,
		ExpiryDate: sub.ExpiryDate,
	}, nil
}

// Upgrade activates a subscription for durationDays from now.
func (s *Service) Upgrade(ctx context.Context, identity, provider string, durationDays int) (Status, error) {
	if provider == "" {
		provider = "apple"
	}
	if durationDays <= 0 {
		durationDays = 30
	}

	expiry := time.Now().UTC().Add(time.Duration(durationDays) * 24 * time.Hour)
	sub := &outbound.Subscription{
		ID:         uuid.New(),
		Identity:   identity,
		Status:     "active",
		Provider:   provider,
		ExpiryDate: &expiry,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return Status{}, errors.NewDatabaseError("upsert subscription", err)
	}

	s.logger.Info("subscription upgraded",
		zap.String("identity", identity),
		zap.String("provider", provider),
		zap.Time("expiry", expiry),
	)
	return Status{Status: "active", Provider: provider, ExpiryDate: &expiry}, nil
}

// Restore reinstates a subscription from a purchase the store already
// knows about, trusting the caller-supplied expiry.
func (s *Service) Restore(ctx context.Context, identity, provider string, expiry time.Time) (Status, error) {
	if provider == "" {
		return Status{}, errors.NewInvalidInput("provider and expiry_date required")
	}

	sub := &outbound.Subscription{
		ID:         uuid.New(),
		Identity:   identity,
		Status:     "active",
		Provider:   provider,
		ExpiryDate: &expiry,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return Status{}, errors.NewDatabaseError("upsert subscription", err)
	}

	s.logger.Info("subscription restored",
		zap.String("identity", identity),
		zap.String("provider", provider),
	)
	return Status{Status: "active", Provider: provider, ExpiryDate: &expiry}, nil
}

// VerifyReceipt checks a store receipt with the provider.
// TODO: call the Apple/Google verification endpoints; currently any
// non-empty receipt passes.
func (s *Service) VerifyReceipt(ctx context.Context, provider, receiptData string) bool {
	return receiptData != ""
}
