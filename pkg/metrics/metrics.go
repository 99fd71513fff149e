package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "plant_"

	ResultSuccess = "success"
	ResultError   = "error"

	ResetRequested = "requested"
	ResetDelivered = "delivered"
)

var (
	registerOnce sync.Once

	registrations   *prometheus.CounterVec
	commands        *prometheus.CounterVec
	commandsAcked   prometheus.Counter
	commandsPending prometheus.Gauge
	resets          *prometheus.CounterVec
	queries         *prometheus.CounterVec
	queryLatency    prometheus.Histogram
	storeErrors     *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Safe to call repeatedly.
func Init() {
	registerOnce.Do(func() {
		registrations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "registrations_total",
				Help: "Device registrations by pairing outcome",
			},
			[]string{"outcome"},
		)
		commands = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_total",
				Help: "Commands placed in device mailboxes by kind",
			},
			[]string{"kind"},
		)
		commandsAcked = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "commands_acked_total",
			Help: "Commands acknowledged by devices",
		})
		commandsPending = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "commands_pending",
			Help: "Undelivered commands currently held in mailboxes",
		})
		resets = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "resets_total",
				Help: "Factory reset latch events",
			},
			[]string{"event"},
		)
		queries = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "telemetry_queries_total",
				Help: "Telemetry queries by result",
			},
			[]string{"result"},
		)
		queryLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "telemetry_query_seconds",
			Help:    "Telemetry query latency in seconds",
			Buckets: prometheus.DefBuckets,
		})
		storeErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_errors_total",
				Help: "Telemetry store failures by operation",
			},
			[]string{"op"},
		)

		prometheus.MustRegister(
			registrations,
			commands,
			commandsAcked,
			commandsPending,
			resets,
			queries,
			queryLatency,
			storeErrors,
		)
	})
}

func ObserveRegistration(outcome string) {
	Init()
	registrations.WithLabelValues(outcome).Inc()
}

func ObserveCommand(kind string, pending int) {
	Init()
	commands.WithLabelValues(kind).Inc()
	commandsPending.Set(float64(pending))
}

func ObserveAck(pending int) {
	Init()
	commandsAcked.Inc()
	commandsPending.Set(float64(pending))
}

func ObserveReset(event string) {
	Init()
	resets.WithLabelValues(event).Inc()
}

func ObserveQuery(result string, started time.Time) {
	Init()
	queries.WithLabelValues(result).Inc()
	queryLatency.Observe(time.Since(started).Seconds())
}

func ObserveStoreError(op string) {
	Init()
	storeErrors.WithLabelValues(op).Inc()
}
