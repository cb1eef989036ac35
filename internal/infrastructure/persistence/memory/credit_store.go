// Package memory provides in-memory port implementations for tests and
// local development.
package memory

import (
	"context"
	"sync"

	"github.com/avionmeals/backend/internal/domain/credits"
)

// CreditStore implements outbound.CreditStore with a mutex-guarded map.
// Consume holds the lock across check and increment, giving the same
// atomicity the database store gets from its conditional UPDATE.
type CreditStore struct {
	mu       sync.Mutex
	accounts map[string]*credits.Account
}

// NewCreditStore creates an empty in-memory credit store.
func NewCreditStore() *CreditStore {
	return &CreditStore{
		accounts: make(map[string]*credits.Account),
	}
}

// Find returns a copy of the account, or nil when absent.
func (s *CreditStore) Find(ctx context.Context, identity string) (*credits.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[identity]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

// FindOrCreate returns the account, creating it with the given allowance
// when absent.
func (s *CreditStore) FindOrCreate(ctx context.Context, identity string, defaultTotal int) (credits.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[identity]
	if !ok {
		account = &credits.Account{
			Identity: identity,
			Total:    defaultTotal,
			Used:     0,
		}
		s.accounts[identity] = account
	}
	return *account, nil
}

// Consume atomically checks and increments usage. A missing account is a
// denial.
func (s *CreditStore) Consume(ctx context.Context, identity string, amount int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[identity]
	if !ok {
		return false, nil
	}
	if account.Used+amount > account.Total {
		return false, nil
	}
	account.Used += amount
	return true, nil
}

// Grant increments the allowance, creating the account with total=amount
// when absent.
func (s *CreditStore) Grant(ctx context.Context, identity string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[identity]
	if !ok {
		s.accounts[identity] = &credits.Account{
			Identity: identity,
			Total:    amount,
			Used:     0,
		}
		return nil
	}
	account.Total += amount
	return nil
}
