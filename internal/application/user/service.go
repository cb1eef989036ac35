// Package user implements account lifecycle: signup, login, guest access,
// sessions, and the OTP-based password reset flow.
package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appcredits "github.com/avionmeals/backend/internal/application/credits"
	"github.com/avionmeals/backend/internal/domain/user"
	"github.com/avionmeals/backend/internal/infrastructure/security"
	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// Service handles account operations.
type Service struct {
	users  outbound.UserRepository
	otp    outbound.OTPStore
	auth   *security.AuthService
	ledger *appcredits.Ledger
	logger *zap.Logger
	otpTTL time.Duration
}

// NewService creates a user service.
func NewService(
	users outbound.UserRepository,
	otp outbound.OTPStore,
	auth *security.AuthService,
	ledger *appcredits.Ledger,
	logger *zap.Logger,
	otpTTL time.Duration,
) *Service {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &Service{
		users:  users,
		otp:    otp,
		auth:   auth,
		ledger: ledger,
		logger: logger,
		otpTTL: otpTTL,
	}
}

// Signup registers a new account. Either email or phone must be present,
// and the chosen contact must not already be taken.
func (s *Service) Signup(ctx context.Context, email, phone, password, name string) (*user.User, error) {
	if password == "" {
		return nil, errors.NewInvalidInput("Password required")
	}
	if len(password) < 6 {
		return nil, errors.NewInvalidInput("Password must be at least 6 characters")
	}
	if email == "" && phone == "" {
		return nil, errors.NewInvalidInput("Email or phone required")
	}

	if email != "" {
		existing, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, errors.NewDatabaseError("find user by email", err)
		}
		if existing != nil {
			return nil, errors.NewConflict("Email already exists")
		}
	}
	if phone != "" {
		existing, err := s.users.FindByPhone(ctx, phone)
		if err != nil {
			return nil, errors.NewDatabaseError("find user by phone", err)
		}
		if existing != nil {
			return nil, errors.NewConflict("Phone already exists")
		}
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	u := &user.User{
		Email:        email,
		Phone:        phone,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Login authenticates by email or phone and returns a signed token. A
// missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, phone, password string) (string, *user.User, error) {
	var u *user.User
	var err error
	switch {
	case email != "":
		u, err = s.users.FindByEmail(ctx, email)
	case phone != "":
		u, err = s.users.FindByPhone(ctx, phone)
	default:
		return "", nil, errors.NewInvalidInput("Email or phone required")
	}
	if err != nil {
		return "", nil, errors.NewDatabaseError("find user", err)
	}

	if u == nil || s.auth.VerifyPassword(u.PasswordHash, password) != nil {
		return "", nil, errors.NewUnauthorized("Invalid credentials")
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		return "", nil, errors.NewDatabaseError("update last login", err)
	}

	token, err := s.auth.GenerateToken(u.ID.String(), u.Email, false)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to issue token")
	}

	return token, u, nil
}

// Guest creates an anonymous account with the small guest allowance and
// returns a token for it.
func (s *Service) Guest(ctx context.Context) (string, *user.User, error) {
	now := time.Now().UTC()
	u := &user.User{
		IsGuest:     true,
		IsActive:    true,
		LastLoginAt: &now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", nil, errors.NewDatabaseError("create guest", err)
	}

	if err := s.ledger.SeedGuest(ctx, u.ID.String()); err != nil {
		return "", nil, errors.NewDatabaseError("seed guest credits", err)
	}

	token, err := s.auth.GenerateToken(u.ID.String(), "", true)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to issue token")
	}

	s.logger.Info("guest created", zap.String("user_id", u.ID.String()))
	return token, u, nil
}

// Session returns the account behind a validated identity.
func (s *Service) Session(ctx context.Context, identity string) (*user.User, error) {
	id, err := uuid.Parse(identity)
	if err != nil {
		return nil, errors.NewUnauthorized("Invalid session")
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if u == nil {
		return nil, errors.NewUnauthorized("Invalid session")
	}
	return u, nil
}

// ForgotPassword starts the reset flow. It always reports success so
// callers cannot probe which contacts are registered; the OTP is only
// issued when a phone matches an account.
func (s *Service) ForgotPassword(ctx context.Context, email, phone string) error {
	if email == "" && phone == "" {
		return errors.NewInvalidInput("Email or phone required")
	}

	var u *user.User
	var err error
	if email != "" {
		u, err = s.users.FindByEmail(ctx, email)
	} else {
		u, err = s.users.FindByPhone(ctx, phone)
	}
	if err != nil {
		return errors.NewDatabaseError("find user", err)
	}
	if u == nil || phone == "" {
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return errors.Wrap(err, "failed to generate otp")
	}
	if err := s.otp.Put(ctx, phone, code, s.otpTTL); err != nil {
		return errors.Wrap(err, "failed to store otp")
	}

	// Delivery goes through SMS in production; the log line is the dev
	// channel.
	s.logger.Info("password reset otp issued", zap.String("phone", phone))
	return nil
}

// ResetPassword completes the reset flow with a valid OTP.
func (s *Service) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	if phone == "" || code == "" || newPassword == "" {
		return errors.NewInvalidInput("phone, otp and new_password required")
	}
	if len(newPassword) < 6 {
		return errors.NewInvalidInput("Password must be at least 6 characters")
	}

	ok, err := s.otp.Verify(ctx, phone, code)
	if err != nil {
		return errors.Wrap(err, "failed to verify otp")
	}
	if !ok {
		return errors.NewInvalidInput("Invalid or expired OTP")
	}

	u, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return errors.NewDatabaseError("find user", err)
	}
	if u == nil {
		return errors.NewNotFound("User not found")
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return errors.NewDatabaseError("update password", err)
	}

	s.logger.Info("password reset", zap.String("user_id", u.ID.String()))
	return nil
}

// Profile returns the account for the identity.
func (s *Service) Profile(ctx context.Context, identity string) (*user.User, error) {
	id, err := uuid.Parse(identity)
	if err != nil {
		return nil, errors.NewNotFound("User not found")
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if u == nil {
		return nil, errors.NewNotFound("User not found")
	}
	return u, nil
}

// UpdateProfile applies name/email/phone changes. A phone already owned by
// another account is a conflict.
func (s *Service) UpdateProfile(ctx context.Context, identity string, name, email, phone *string) (*user.User, error) {
	u, err := s.Profile(ctx, identity)
	if err != nil {
		return nil, err
	}

	if phone != nil && *phone != u.Phone {
		existing, err := s.users.FindByPhone(ctx, *phone)
		if err != nil {
			return nil, errors.NewDatabaseError("find user by phone", err)
		}
		if existing != nil && existing.ID != u.ID {
			return nil, errors.NewConflict("Phone number already exists")
		}
		u.Phone = *phone
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("update user", err)
	}
	return u, nil
}

// generateOTP returns a six-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
