// Package credits implements the credit ledger that gates every paid AI
// action. All mutation goes through the CreditStore port; the atomicity of
// Consume lives there (a conditional UPDATE in the database store, a mutex
// in the in-memory one).
package credits

import (
	"context"

	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/domain/credits"
	"github.com/avionmeals/backend/internal/ports/outbound"
)

// Ledger exposes the per-identity credit operations.
type Ledger struct {
	store  outbound.CreditStore
	logger *zap.Logger

	defaultAllowance int
	guestAllowance   int
}

// NewLedger creates a ledger over the given store. defaultAllowance is
// granted to accounts created lazily on first status read; guestAllowance
// is used when seeding guest identities.
func NewLedger(store outbound.CreditStore, logger *zap.Logger, defaultAllowance, guestAllowance int) *Ledger {
	return &Ledger{
		store:            store,
		logger:           logger,
		defaultAllowance: defaultAllowance,
		guestAllowance:   guestAllowance,
	}
}

// Status returns the balance for an identity, lazily creating the account
// with the default allowance when it has never been seen. Status never
// fails on a missing account; it is informational and safe to default.
func (l *Ledger) Status(ctx context.Context, identity string) (credits.Status, error) {
	if identity == "" {
		return credits.Status{}, credits.ErrEmptyIdentity
	}

	account, err := l.store.FindOrCreate(ctx, identity, l.defaultAllowance)
	if err != nil {
		return credits.Status{}, err
	}

	return credits.StatusOf(account), nil
}

// SeedGuest lazily creates the account for a guest identity with the
// smaller guest allowance. A registered identity that already has an
// account is left untouched.
func (l *Ledger) SeedGuest(ctx context.Context, identity string) error {
	if identity == "" {
		return credits.ErrEmptyIdentity
	}
	_, err := l.store.FindOrCreate(ctx, identity, l.guestAllowance)
	return err
}

// CanConsume is a pure dry-run read: false when no account exists or the
// remaining allowance is below amount. It must never stand in for Consume;
// check-then-act without the store's atomicity is a race.
func (l *Ledger) CanConsume(ctx context.Context, identity string, amount int) (bool, error) {
	if identity == "" {
		return false, credits.ErrEmptyIdentity
	}

	account, err := l.store.Find(ctx, identity)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}

	return account.Used+amount <= account.Total, nil
}

// Consume atomically spends amount units of allowance. It fails closed:
// a nonexistent account is a denial, not a lazy create. Unlike Status,
// consume is the security-relevant gate.
func (l *Ledger) Consume(ctx context.Context, identity string, amount int) (bool, error) {
	if identity == "" {
		return false, credits.ErrEmptyIdentity
	}
	if amount <= 0 {
		return false, credits.ErrInvalidAmount
	}

	ok, err := l.store.Consume(ctx, identity, amount)
	if err != nil {
		return false, err
	}

	if !ok {
		l.logger.Info("credit consume denied",
			zap.String("identity", identity),
			zap.Int("amount", amount),
		)
	}

	return ok, nil
}

// AddCredits grants additional allowance, creating the account with
// total=amount when absent. Non-positive amounts are rejected before any
// mutation.
func (l *Ledger) AddCredits(ctx context.Context, identity string, amount int) error {
	if identity == "" {
		return credits.ErrEmptyIdentity
	}
	if amount <= 0 {
		return credits.ErrInvalidAmount
	}

	if err := l.store.Grant(ctx, identity, amount); err != nil {
		return err
	}

	l.logger.Info("credits granted",
		zap.String("identity", identity),
		zap.Int("amount", amount),
	)

	return nil
}
