package service

import (
	"context"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/metrics"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

// SensorFetcher reads the most recent raw values of one sensor attribute.
type SensorFetcher interface {
	FetchLastN(ctx context.Context, kind models.SensorKind, lastN int) ([]models.RawRecord, error)
}

// CommandSender delivers an actuator command to the broker.
type CommandSender interface {
	SendCommand(ctx context.Context, cmd models.Command) error
}

// Monitoring is the read model consumed by the dashboard.
type Monitoring interface {
	Series(ctx context.Context, kind models.SensorKind) models.Series
	AllSeries(ctx context.Context) []models.Series
	Status(ctx context.Context) models.ActuatorStatus
}

// EventLog exposes the actuator audit trail with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActuatorEvent, error)
}

// Poller runs the poll → decide → dispatch loop.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
	Tick(ctx context.Context) TickReport
}

// Service aggregates the sub-services handed to the HTTP layer.
type Service struct {
	Monitoring
	EventLog
	Poller
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Repos      *repository.Repository
	Fetcher    SensorFetcher
	Sender     CommandSender
	Thresholds models.ThresholdConfig
	FetchCount int
	Location   *time.Location
	Metrics    *metrics.Metrics
	Log        *logger.Logger
}

// NewService builds the dispatcher around a fresh ActuatorState and threads it
// through the poller and the monitoring read model.
func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	state := &models.ActuatorState{}
	dispatcher := NewDispatcher(d.Sender, state, d.Repos.EventRepo, d.Log.Named("dispatcher"), d.Metrics)
	poller := NewPollerService(PollerDeps{
		Fetcher:    d.Fetcher,
		History:    d.Repos.HistoryRepo,
		Converter:  NewTimeConverter(d.Location, d.Log.Named("timeconv")),
		Evaluator:  NewEvaluator(d.Thresholds),
		Dispatcher: dispatcher,
		FetchCount: d.FetchCount,
		Metrics:    d.Metrics,
		Log:        d.Log.Named("poller"),
	})
	return &Service{
		Monitoring: NewMonitoringService(d.Repos.HistoryRepo, dispatcher, poller),
		EventLog:   NewEventLogService(d.Repos.EventRepo),
		Poller:     poller,
	}
}
