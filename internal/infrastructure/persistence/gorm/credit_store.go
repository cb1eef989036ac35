package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avionmeals/backend/internal/domain/credits"
)

// CreditStore implements outbound.CreditStore on GORM. Consume is a single
// conditional UPDATE, so concurrent spends against one identity serialize
// in the database rather than in application code.
type CreditStore struct {
	db *gorm.DB
}

// NewCreditStore creates a credit store.
func NewCreditStore(db *gorm.DB) *CreditStore {
	return &CreditStore{db: db}
}

// Find returns the account, or nil when the identity has never been seen.
func (s *CreditStore) Find(ctx context.Context, identity string) (*credits.Account, error) {
	var model CreditAccountModel
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	account := toAccount(&model)
	return &account, nil
}

// FindOrCreate returns the account, creating it with the given allowance
// when absent. The insert ignores conflicts so two concurrent first reads
// of the same identity converge on one row.
func (s *CreditStore) FindOrCreate(ctx context.Context, identity string, defaultTotal int) (credits.Account, error) {
	account, err := s.Find(ctx, identity)
	if err != nil {
		return credits.Account{}, err
	}
	if account != nil {
		return *account, nil
	}

	model := CreditAccountModel{
		Identity:     identity,
		TotalCredits: defaultTotal,
		CreditsUsed:  0,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoNothing: true,
		}).
		Create(&model).Error
	if err != nil {
		return credits.Account{}, err
	}

	// Re-read: on conflict the insert was a no-op and another writer's row
	// is the canonical one.
	account, err = s.Find(ctx, identity)
	if err != nil {
		return credits.Account{}, err
	}
	if account == nil {
		return credits.Account{}, gorm.ErrRecordNotFound
	}
	return *account, nil
}

// Consume atomically checks and increments credits_used. Zero rows affected
// means insufficient allowance or no such account; either way nothing
// changed and the caller is denied.
func (s *CreditStore) Consume(ctx context.Context, identity string, amount int) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&CreditAccountModel{}).
		Where("identity = ? AND credits_used + ? <= total_credits", identity, amount).
		Update("credits_used", gorm.Expr("credits_used + ?", amount))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Grant increments the total allowance, creating the account with
// total=amount when absent.
func (s *CreditStore) Grant(ctx context.Context, identity string, amount int) error {
	result := s.db.WithContext(ctx).
		Model(&CreditAccountModel{}).
		Where("identity = ?", identity).
		Update("total_credits", gorm.Expr("total_credits + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	model := CreditAccountModel{
		Identity:     identity,
		TotalCredits: amount,
		CreditsUsed:  0,
	}
	insert := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoNothing: true,
		}).
		Create(&model)
	if insert.Error != nil {
		return insert.Error
	}
	if insert.RowsAffected == 1 {
		return nil
	}

	// A concurrent create won the insert race; apply the grant to its row
	// so it is never silently lost.
	return s.db.WithContext(ctx).
		Model(&CreditAccountModel{}).
		Where("identity = ?", identity).
		Update("total_credits", gorm.Expr("total_credits + ?", amount)).Error
}

func toAccount(m *CreditAccountModel) credits.Account {
	return credits.Account{
		Identity: m.Identity,
		Total:    m.TotalCredits,
		Used:     m.CreditsUsed,
	}
}
