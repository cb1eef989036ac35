// Package gorm provides GORM model definitions and repository
// implementations for the application.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditAccountModel represents the GORM model for credit accounts.
// Identity is unique; the conditional UPDATE in the credit store relies on
// every identity mapping to exactly one row.
type CreditAccountModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Identity     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	TotalCredits int       `gorm:"column:total_credits;not null;default:0"`
	CreditsUsed  int       `gorm:"column:credits_used;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MealPlanModel represents the GORM model for generated meal plans.
type MealPlanModel struct {
	ID        uuid.UUID    `gorm:"type:char(36);primaryKey"`
	Identity  string       `gorm:"type:varchar(255);not null;index"`
	Plan      JSONDocument `gorm:"type:json;not null"`
	Cuisine   string       `gorm:"type:varchar(100)"`
	IsSaved   bool         `gorm:"default:false"`
	CreatedAt time.Time    `gorm:"index"`
	UpdatedAt time.Time
}

// RecipeModel represents the GORM model for generated recipes.
type RecipeModel struct {
	ID        uuid.UUID    `gorm:"type:char(36);primaryKey"`
	Identity  string       `gorm:"type:varchar(255);not null;index"`
	Title     string       `gorm:"type:varchar(255);not null"`
	Content   JSONDocument `gorm:"type:json;not null"`
	IsSaved   bool         `gorm:"default:false"`
	CreatedAt time.Time    `gorm:"index"`
	UpdatedAt time.Time
}

// UserModel represents the GORM model for users. Either Email or Phone is
// set; uniqueness of the non-empty contact is enforced at the service layer
// because empty strings would collide under a plain unique index.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);index"`
	Phone        string    `gorm:"type:varchar(32);index"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255)"`
	IsGuest      bool      `gorm:"default:false"`
	IsPro        bool      `gorm:"default:false"`
	IsActive     bool      `gorm:"default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubscriptionModel represents the GORM model for subscription state.
type SubscriptionModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	Identity   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Status     string    `gorm:"type:varchar(20);default:'free'"`
	Provider   string    `gorm:"type:varchar(20)"`
	ExpiryDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DeviceTokenModel represents the GORM model for push-notification tokens.
type DeviceTokenModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Identity  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_device_identity_token"`
	Token     string    `gorm:"type:varchar(512);not null;uniqueIndex:idx_device_identity_token"`
	Platform  string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time
}

// EventModel represents the GORM model for analytics events.
type EventModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Identity  string    `gorm:"type:varchar(255);index"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Metadata  JSONField `gorm:"type:json"`
	CreatedAt time.Time `gorm:"index"`
}

// JSONDocument stores an arbitrary JSON document as a column.
type JSONDocument json.RawMessage

// Scan implements the sql.Scanner interface.
func (d *JSONDocument) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
		return nil
	case string:
		*d = JSONDocument(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONDocument", value)
	}
}

// Value implements the driver.Valuer interface.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "null", nil
	}
	return string(d), nil
}

// JSONField stores a JSON object column as a map.
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return json.Marshal(j)
}

// BeforeCreate hook for CreditAccountModel
func (m *CreditAccountModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for UserModel
func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for SubscriptionModel
func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for DeviceTokenModel
func (m *DeviceTokenModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for EventModel
func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Migrate runs auto-migration for every model the service persists.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&CreditAccountModel{},
		&MealPlanModel{},
		&RecipeModel{},
		&UserModel{},
		&SubscriptionModel{},
		&DeviceTokenModel{},
		&EventModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// TableName methods for custom table names
func (CreditAccountModel) TableName() string {
	return "credit_accounts"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (UserModel) TableName() string {
	return "users"
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}

func (EventModel) TableName() string {
	return "events"
}
