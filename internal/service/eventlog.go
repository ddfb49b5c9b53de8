package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

// EventLogService reads the actuator audit trail.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// ErrInvalidLogFilter is wrapped by every filter validation failure.
var ErrInvalidLogFilter = errors.New("invalid log filter")

var (
	errInvalidTimeRange = fmt.Errorf("%w: From must be <= To", ErrInvalidLogFilter)
	errUnknownEventType = fmt.Errorf("%w: unknown event type", ErrInvalidLogFilter)
)

// knownEventTypes are the types the dispatcher records.
var knownEventTypes = map[string]struct{}{
	models.EventCommandSent:     {},
	models.EventCommandFailed:   {},
	models.EventCommandRejected: {},
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range and type.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	typ := normalizeEventType(f.Type)
	if typ != "" {
		if _, ok := knownEventTypes[typ]; !ok {
			return time.Time{}, time.Time{}, "", fmt.Errorf("%w %q", errUnknownEventType, typ)
		}
	}
	return from, to, typ, nil
}

// List returns matching events oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ActuatorEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
