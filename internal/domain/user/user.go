// Package user defines the account entity for registered and guest users.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrContactRequired  = errors.New("email or phone is required")
)

// User is an application account. Guests have no credentials and exist only
// to anchor a ledger identity and generated content.
type User struct {
	ID           uuid.UUID
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	IsGuest      bool
	IsPro        bool
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}
