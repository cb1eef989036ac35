package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appcredits "github.com/avionmeals/backend/internal/application/credits"
	domainuser "github.com/avionmeals/backend/internal/domain/user"
	"github.com/avionmeals/backend/internal/infrastructure/config"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/memory"
	"github.com/avionmeals/backend/internal/infrastructure/security"
	apperrors "github.com/avionmeals/backend/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domainuser.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domainuser.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domainuser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domainuser.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	if email == "" {
		return nil, nil
	}
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*domainuser.User, error) {
	if phone == "" {
		return nil, nil
	}
	for _, u := range r.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domainuser.User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

type userFixture struct {
	service *Service
	repo    *fakeUserRepo
	otp     *memory.OTPStore
	auth    *security.AuthService
	ledger  *appcredits.Ledger
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTExpiration = time.Hour
	cfg.Auth.BCryptCost = bcrypt.MinCost

	repo := newFakeUserRepo()
	otp := memory.NewOTPStore()
	auth := security.NewAuthService(cfg, zap.NewNop())
	ledger := appcredits.NewLedger(memory.NewCreditStore(), zap.NewNop(), 200, 3)

	return &userFixture{
		service: NewService(repo, otp, auth, ledger, zap.NewNop(), 5*time.Minute),
		repo:    repo,
		otp:     otp,
		auth:    auth,
		ledger:  ledger,
	}
}

func TestSignupAndLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.service.Signup(ctx, "a@example.com", "", "secret1", "Asha")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	token, logged, err := f.service.Login(ctx, "a@example.com", "", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	require.NotNil(t, logged.LastLoginAt)

	claims, err := f.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Identity)
	assert.False(t, claims.IsGuest)
}

func TestSignupValidation(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "a@example.com", "", "", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = f.service.Signup(ctx, "a@example.com", "", "short", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = f.service.Signup(ctx, "", "", "secret1", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestSignupRejectsDuplicateContact(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "a@example.com", "", "secret1", "")
	require.NoError(t, err)
	_, err = f.service.Signup(ctx, "a@example.com", "", "secret2", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	_, err = f.service.Signup(ctx, "", "+911234567890", "secret1", "")
	require.NoError(t, err)
	_, err = f.service.Signup(ctx, "", "+911234567890", "secret2", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "a@example.com", "", "secret1", "")
	require.NoError(t, err)

	// Wrong password and unknown user look the same to the caller.
	_, _, err = f.service.Login(ctx, "a@example.com", "", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, _, err = f.service.Login(ctx, "nobody@example.com", "", "secret1")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestGuestSeedsLedgerAndIssuesToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	token, u, err := f.service.Guest(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsGuest)

	claims, err := f.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsGuest)
	assert.Equal(t, u.ID.String(), claims.Identity)

	status, err := f.ledger.Status(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, status.Total)
}

func TestSessionRejectsUnknownIdentity(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.service.Session(ctx, "not-a-uuid")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = f.service.Session(ctx, uuid.NewString())
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestPasswordResetFlow(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	phone := "+911234567890"
	_, err := f.service.Signup(ctx, "", phone, "secret1", "")
	require.NoError(t, err)

	require.NoError(t, f.service.ForgotPassword(ctx, "", phone))

	// The fixture owns the OTP store, so the test can pull the code the
	// way the SMS channel would deliver it.
	code := issuedOTP(t, f.otp, phone)

	require.NoError(t, f.service.ResetPassword(ctx, phone, code, "newpass1"))

	_, _, err = f.service.Login(ctx, "", phone, "secret1")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, _, err = f.service.Login(ctx, "", phone, "newpass1")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsBadOTP(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	phone := "+911234567890"
	_, err := f.service.Signup(ctx, "", phone, "secret1", "")
	require.NoError(t, err)

	require.NoError(t, f.service.ForgotPassword(ctx, "", phone))

	err = f.service.ResetPassword(ctx, phone, "000000", "newpass1")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestForgotPasswordNeverRevealsAccounts(t *testing.T) {
	f := newUserFixture(t)

	// Unknown contacts still report success.
	assert.NoError(t, f.service.ForgotPassword(context.Background(), "", "+910000000000"))
	assert.NoError(t, f.service.ForgotPassword(context.Background(), "nobody@example.com", ""))
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.service.Signup(ctx, "a@example.com", "", "secret1", "Asha")
	require.NoError(t, err)

	name := "Asha P"
	phone := "+911234567890"
	updated, err := f.service.UpdateProfile(ctx, u.ID.String(), &name, nil, &phone)
	require.NoError(t, err)
	assert.Equal(t, "Asha P", updated.Name)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "a@example.com", updated.Email)

	// A phone owned by another account is a conflict.
	other, err := f.service.Signup(ctx, "b@example.com", "", "secret1", "")
	require.NoError(t, err)
	_, err = f.service.UpdateProfile(ctx, other.ID.String(), nil, nil, &phone)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestGenerateOTPFormat(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

// issuedOTP brute-forces nothing: it reaches into the in-memory store the
// same way the SMS sender would receive the code.
func issuedOTP(t *testing.T, store *memory.OTPStore, phone string) string {
	t.Helper()
	code, ok := store.Peek(phone)
	require.True(t, ok, "no OTP stored for %s", phone)
	return code
}
