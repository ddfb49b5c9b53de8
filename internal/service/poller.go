package service

import (
	"context"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/metrics"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

// DefaultFetchCount is the lastN used when none is configured.
const DefaultFetchCount = 1

// commandDispatcher is the part of *Dispatcher the poller needs.
type commandDispatcher interface {
	Dispatch(ctx context.Context, cmd models.Command) (DispatchOutcome, error)
}

type PollerDeps struct {
	Fetcher    SensorFetcher
	History    repository.HistoryRepo
	Converter  *TimeConverter
	Evaluator  *Evaluator
	Dispatcher commandDispatcher
	FetchCount int
	Metrics    *metrics.Metrics
	Log        *logger.Logger
}

// PollerService runs one tick at a time: fetch and append every sensor, then
// decide and dispatch. Ticks never overlap since Run calls Tick inline.
type PollerService struct {
	fetcher    SensorFetcher
	history    repository.HistoryRepo
	converter  *TimeConverter
	evaluator  *Evaluator
	dispatcher commandDispatcher
	fetchCount int
	metrics    *metrics.Metrics
	log        *logger.Logger
	now        func() time.Time

	mu      sync.RWMutex
	last    TickReport
	hasLast bool
}

func NewPollerService(d PollerDeps) *PollerService {
	if d.FetchCount <= 0 {
		d.FetchCount = DefaultFetchCount
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Converter == nil {
		d.Converter = NewTimeConverter(time.UTC, d.Log)
	}
	return &PollerService{
		fetcher:    d.Fetcher,
		history:    d.History,
		converter:  d.Converter,
		evaluator:  d.Evaluator,
		dispatcher: d.Dispatcher,
		fetchCount: d.FetchCount,
		metrics:    d.Metrics,
		log:        d.Log,
		now:        time.Now,
	}
}

// Run ticks once immediately, then at the given interval until ctx is canceled.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	p.log.Infow("poller_started", "interval", interval.String(), "fetch_count", p.fetchCount)
	p.Tick(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Infow("poller_stopped")
			return
		case <-t.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs Phase A (fetch + update) for every sensor, then Phase B (decide + dispatch).
func (p *PollerService) Tick(ctx context.Context) TickReport {
	start := p.now()
	report := TickReport{StartedAt: start.UTC()}

	for _, kind := range models.SensorKinds {
		report.Sensors = append(report.Sensors, p.pollSensor(ctx, kind))
	}

	report.Decision = p.evaluator.Decide(
		report.latest(models.Temperature),
		report.latest(models.Humidity),
		report.latest(models.Luminosity),
	)
	p.logDecision(report)

	outcome, err := p.dispatcher.Dispatch(ctx, report.Decision.Command)
	report.Outcome = outcome
	if err != nil {
		p.log.Warnw("tick_dispatch_error", "outcome", outcome, "err", err)
	}

	report.Duration = p.now().Sub(start)
	p.metrics.ObserveTick(report.Duration.Seconds())

	p.mu.Lock()
	p.last = report
	p.hasLast = true
	p.mu.Unlock()
	return report
}

// pollSensor never fails: errors become an empty result for this sensor only.
func (p *PollerService) pollSensor(ctx context.Context, kind models.SensorKind) SensorResult {
	res := SensorResult{Kind: kind}
	name := string(kind)

	records, err := p.fetcher.FetchLastN(ctx, kind, p.fetchCount)
	if err != nil {
		p.log.Errorw("sensor_fetch_failed", "sensor", name, "err", err)
		p.metrics.FetchFailed(name)
		res.Error = err.Error()
		return res
	}
	res.Fetched = len(records)
	if len(records) == 0 {
		p.log.Debugw("sensor_no_data", "sensor", name)
		return res
	}

	batch := parseRecords(records, p.converter)
	for _, perr := range batch.Errors {
		p.log.Warnw("sensor_record_skipped", "sensor", name, "err", perr)
	}
	res.Dropped = batch.Dropped
	res.Latest = batch.Latest
	p.metrics.RecordsDropped(name, batch.Dropped)
	if batch.Latest != nil {
		p.metrics.SetLatest(name, *batch.Latest)
	}

	res.Appended = len(batch.Readings)
	size := p.history.Append(kind, batch.Readings)
	p.metrics.SetHistoryLength(name, size)
	return res
}

func (p *PollerService) logDecision(r TickReport) {
	d := r.Decision
	if d.Reason == models.ReasonNoData {
		p.log.Warnw("no_recent_sensor_data", "command", d.Command.String())
		return
	}
	for _, kind := range d.Triggers {
		v := r.latest(kind)
		if v == nil {
			continue
		}
		p.log.Infow("threshold_condition_met", "sensor", string(kind), "value", *v, "limit", p.evaluator.limit(kind))
	}
	p.log.Debugw("decision", "command", d.Command.String(), "reason", string(d.Reason))
}

// LastReport returns the most recent tick report, false before the first tick.
func (p *PollerService) LastReport() (TickReport, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.hasLast
}
