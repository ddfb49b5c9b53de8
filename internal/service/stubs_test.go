package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
)

// stubFetcher returns canned records per sensor kind.
type stubFetcher struct {
	mu      sync.Mutex
	records map[models.SensorKind][]models.RawRecord
	errs    map[models.SensorKind]error
	calls   []models.SensorKind
	lastN   []int
}

func (f *stubFetcher) FetchLastN(ctx context.Context, kind models.SensorKind, lastN int) ([]models.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	f.lastN = append(f.lastN, lastN)
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return f.records[kind], nil
}

// stubSender records every command and fails while failNext > 0.
type stubSender struct {
	mu       sync.Mutex
	sent     []models.Command
	failNext int
	err      error
}

func (s *stubSender) SendCommand(ctx context.Context, cmd models.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, cmd)
	if s.failNext > 0 {
		s.failNext--
		if s.err != nil {
			return s.err
		}
		return errors.New("connection refused")
	}
	return nil
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// captureEventRepo keeps appended events in memory.
type captureEventRepo struct {
	events    []models.ActuatorEvent
	appendErr error
}

func (r *captureEventRepo) Append(ctx context.Context, e models.ActuatorEvent) error {
	r.events = append(r.events, e)
	return r.appendErr
}

func (r *captureEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.ActuatorEvent, error) {
	return r.events, nil
}

func ptr(v float64) *float64 { return &v }
