// Package analytics records client-side usage events.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/errors"
)

// Service appends analytics events to durable storage.
type Service struct {
	events outbound.EventRepository
	logger *zap.Logger
}

// NewService creates an analytics service.
func NewService(events outbound.EventRepository, logger *zap.Logger) *Service {
	return &Service{events: events, logger: logger}
}

// TrackEvent records one event. Identity may be "anonymous" for
// unauthenticated clients.
func (s *Service) TrackEvent(ctx context.Context, identity, name string, metadata map[string]interface{}) (*outbound.Event, error) {
	if name == "" {
		return nil, errors.NewInvalidInput("event is required")
	}
	if identity == "" {
		identity = "anonymous"
	}

	event := &outbound.Event{
		ID:        uuid.New(),
		Identity:  identity,
		Name:      name,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Record(ctx, event); err != nil {
		return nil, errors.NewDatabaseError("record event", err)
	}

	s.logger.Debug("event tracked",
		zap.String("identity", identity),
		zap.String("event", name),
	)
	return event, nil
}
