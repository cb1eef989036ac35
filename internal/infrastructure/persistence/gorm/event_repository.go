package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/avionmeals/backend/internal/ports/outbound"
)

// EventRepository implements outbound.EventRepository on GORM.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates an analytics event repository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Record appends one analytics event.
func (r *EventRepository) Record(ctx context.Context, ev *outbound.Event) error {
	model := EventModel{
		ID:        ev.ID,
		Identity:  ev.Identity,
		Name:      ev.Name,
		Metadata:  JSONField(ev.Metadata),
		CreatedAt: ev.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
