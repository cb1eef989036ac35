// Package outbound defines the ports the application core depends on.
// Implementations live under internal/infrastructure.
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avionmeals/backend/internal/domain/credits"
	"github.com/avionmeals/backend/internal/domain/mealplan"
	"github.com/avionmeals/backend/internal/domain/recipe"
	"github.com/avionmeals/backend/internal/domain/user"
)

// CreditStore is durable storage for credit accounts. Consume must be a
// single atomic check-and-increment with respect to concurrent callers
// sharing an identity; everything else in the billing model leans on that.
type CreditStore interface {
	// Find returns the account, or nil when the identity has never been seen.
	Find(ctx context.Context, identity string) (*credits.Account, error)

	// FindOrCreate returns the account, lazily creating it with the given
	// allowance when absent. Concurrent creates for the same identity must
	// converge on a single account.
	FindOrCreate(ctx context.Context, identity string, defaultTotal int) (credits.Account, error)

	// Consume atomically checks used+amount <= total and increments used.
	// Returns false, leaving the account untouched, when the allowance is
	// insufficient or the account does not exist.
	Consume(ctx context.Context, identity string, amount int) (bool, error)

	// Grant creates the account with total=amount when absent, otherwise
	// increments total by amount.
	Grant(ctx context.Context, identity string, amount int) error
}

// MealPlanRecord is a persisted generated meal plan.
type MealPlanRecord struct {
	ID        uuid.UUID
	Identity  string
	Plan      mealplan.Plan
	Cuisine   string
	Saved     bool
	CreatedAt time.Time
}

// MealPlanRepository stores generated meal plans keyed by identity.
type MealPlanRepository interface {
	Save(ctx context.Context, rec *MealPlanRecord) error
	Latest(ctx context.Context, identity string) (*MealPlanRecord, error)
	History(ctx context.Context, identity string) ([]MealPlanRecord, error)
	Update(ctx context.Context, id uuid.UUID, identity string, plan mealplan.Plan, cuisine string) (*MealPlanRecord, error)
	Clear(ctx context.Context, identity string) error
}

// RecipeRecord is a persisted generated recipe.
type RecipeRecord struct {
	ID        uuid.UUID
	Identity  string
	Title     string
	Content   recipe.Recipe
	Saved     bool
	CreatedAt time.Time
}

// RecipeRepository stores generated recipes keyed by identity.
type RecipeRepository interface {
	Save(ctx context.Context, rec *RecipeRecord) error
	Latest(ctx context.Context, identity string) (*RecipeRecord, error)
	ByID(ctx context.Context, identity string, id uuid.UUID) (*RecipeRecord, error)
}

// UserRepository stores application accounts.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByPhone(ctx context.Context, phone string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

// Subscription is a persisted subscription row.
type Subscription struct {
	ID         uuid.UUID
	Identity   string
	Status     string // free / active / expired
	Provider   string // apple / google
	ExpiryDate *time.Time
	UpdatedAt  time.Time
}

// SubscriptionRepository stores subscription state keyed by identity.
type SubscriptionRepository interface {
	Find(ctx context.Context, identity string) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
}

// DeviceToken is a registered push-notification token.
type DeviceToken struct {
	ID        uuid.UUID
	Identity  string
	Token     string
	Platform  string // ios / android / web
	CreatedAt time.Time
}

// DeviceTokenRepository stores push tokens for FCM/APNs delivery.
type DeviceTokenRepository interface {
	Register(ctx context.Context, t *DeviceToken) error
	Replace(ctx context.Context, identity, oldToken, newToken string) (*DeviceToken, error)
	Remove(ctx context.Context, identity, token string) error
}

// Event is one analytics event row.
type Event struct {
	ID        uuid.UUID
	Identity  string
	Name      string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// EventRepository stores analytics events.
type EventRepository interface {
	Record(ctx context.Context, ev *Event) error
}

// OTPStore holds one-time password codes with TTL semantics.
type OTPStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error

	// Verify reports whether the code matches the stored value for the
	// phone and consumes it on success.
	Verify(ctx context.Context, phone, code string) (bool, error)
}
