// Package security provides JWT authentication and password hashing.
package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avionmeals/backend/internal/infrastructure/config"
)

// AuthService issues and validates JWT bearer tokens and hashes passwords.
type AuthService struct {
	config    *config.Config
	logger    *zap.Logger
	jwtSecret []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		config:    cfg,
		logger:    logger,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
	}
}

// Claims represents the JWT claims structure. Identity is the value the
// credit ledger and repositories key on: the user ID for registered users,
// the guest ID for guests.
type Claims struct {
	Identity string `json:"identity"`
	Email    string `json:"email,omitempty"`
	IsGuest  bool   `json:"is_guest"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed access token for the identity.
func (a *AuthService) GenerateToken(identity, email string, isGuest bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		Identity: identity,
		Email:    email,
		IsGuest:  isGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "avionmeals",
			Subject:   identity,
			Audience:  []string{"avionmeals-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.Auth.JWTExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token string and returns its claims.
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// HashPassword hashes a password using bcrypt.
func (a *AuthService) HashPassword(password string) (string, error) {
	cost := a.config.Auth.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against its hash.
func (a *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
