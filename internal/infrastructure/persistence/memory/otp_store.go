package memory

import (
	"context"
	"sync"
	"time"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPStore implements outbound.OTPStore with a mutex-guarded map. Expired
// codes are dropped lazily on the next lookup.
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	now   func() time.Time
}

// NewOTPStore creates an empty in-memory OTP store.
func NewOTPStore() *OTPStore {
	return &OTPStore{
		codes: make(map[string]otpEntry),
		now:   time.Now,
	}
}

// Put stores the code for the phone with the given TTL.
func (s *OTPStore) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[phone] = otpEntry{
		code:      code,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Peek returns the live code for a phone without consuming it. Dev-only:
// it stands in for the SMS delivery channel.
func (s *OTPStore) Peek(phone string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[phone]
	if !ok || s.now().After(entry.expiresAt) {
		return "", false
	}
	return entry.code, true
}

// Verify checks the code and consumes it on success.
func (s *OTPStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[phone]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.codes, phone)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}

	delete(s.codes, phone)
	return true, nil
}
