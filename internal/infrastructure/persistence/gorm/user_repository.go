package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avionmeals/backend/internal/domain/user"
)

// UserRepository implements outbound.UserRepository on GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	return nil
}

// FindByID returns the user, or nil when not found.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}

// FindByEmail returns the user with the given email, or nil when not found.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if email == "" {
		return nil, nil
	}
	var model UserModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}

// FindByPhone returns the user with the given phone, or nil when not found.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	if phone == "" {
		return nil, nil
	}
	var model UserModel
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(toUserModel(u)).Error
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsGuest:      u.IsGuest,
		IsPro:        u.IsPro,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func toUser(m *UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Email:        m.Email,
		Phone:        m.Phone,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		IsGuest:      m.IsGuest,
		IsPro:        m.IsPro,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
	}
}
