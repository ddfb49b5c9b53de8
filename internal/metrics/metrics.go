package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sensor_dashboard"

// Metrics groups the controller's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	ticks          prometheus.Counter
	tickDuration   prometheus.Histogram
	fetchFailures  *prometheus.CounterVec
	droppedRecords *prometheus.CounterVec
	latestValue    *prometheus.GaugeVec
	historyLength  *prometheus.GaugeVec
	commands       *prometheus.CounterVec
	ledOn          prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "Number of completed poll ticks.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_tick_duration_seconds",
			Help:      "Wall time of one poll tick.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sensor_fetch_failures_total",
			Help:      "Failed historical-data fetches by sensor.",
		}, []string{"sensor"}),
		droppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sensor_records_dropped_total",
			Help:      "Raw records skipped because the value or timestamp did not parse.",
		}, []string{"sensor"}),
		latestValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_latest_value",
			Help:      "Latest value fetched per sensor.",
		}, []string{"sensor"}),
		historyLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_history_length",
			Help:      "Readings currently kept in the rolling history.",
		}, []string{"sensor"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuator_commands_total",
			Help:      "Dispatch outcomes by command.",
		}, []string{"command", "result"}),
		ledOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actuator_led_on",
			Help:      "1 when the last acknowledged command was on.",
		}),
	}
	reg.MustRegister(
		m.ticks, m.tickDuration, m.fetchFailures, m.droppedRecords,
		m.latestValue, m.historyLength, m.commands, m.ledOn,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(seconds)
}

func (m *Metrics) FetchFailed(sensor string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(sensor).Inc()
}

func (m *Metrics) RecordsDropped(sensor string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedRecords.WithLabelValues(sensor).Add(float64(n))
}

func (m *Metrics) SetLatest(sensor string, v float64) {
	if m == nil {
		return
	}
	m.latestValue.WithLabelValues(sensor).Set(v)
}

func (m *Metrics) SetHistoryLength(sensor string, n int) {
	if m == nil {
		return
	}
	m.historyLength.WithLabelValues(sensor).Set(float64(n))
}

// Command results.
const (
	ResultSent      = "sent"
	ResultFailed    = "failed"
	ResultDebounced = "debounced"
	ResultRejected  = "rejected"
)

func (m *Metrics) CommandResult(command, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, result).Inc()
}

func (m *Metrics) SetLEDOn(on bool) {
	if m == nil {
		return
	}
	if on {
		m.ledOn.Set(1)
		return
	}
	m.ledOn.Set(0)
}
