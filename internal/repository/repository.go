package repository

import (
	"context"
	"database/sql"
	"time"

	"sensor_dashboard/internal/models"
)

// EventRepo is the append-only audit trail of actuator command attempts.
type EventRepo interface {
	Append(ctx context.Context, e models.ActuatorEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ActuatorEvent, error)
}

// HistoryRepo keeps one bounded rolling history per sensor kind.
type HistoryRepo interface {
	Append(kind models.SensorKind, readings []models.Reading) int
	Snapshot(kind models.SensorKind) []models.Reading
	Capacity() int
}

type Repository struct {
	EventRepo   EventRepo
	HistoryRepo HistoryRepo
}

func NewRepository(db *sql.DB, historyCount int) *Repository {
	return &Repository{
		EventRepo:   NewEventSQLite(db),
		HistoryRepo: NewHistoryMemory(historyCount),
	}
}
