package plant

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
)

// BreakerStore guards an ISeriesStore with a circuit breaker. Missing or
// duplicate series are answers, not outages, and never trip it.
type BreakerStore struct {
	next ISeriesStore
	cb   *gobreaker.CircuitBreaker
}

type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	OpenFor     time.Duration
	Interval    time.Duration
}

func NewBreakerStore(next ISeriesStore, settings BreakerSettings) *BreakerStore {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	logger := common.GetLoggerWith(common.LoggerNameTelemetryStore)
	return &BreakerStore{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     settings.Name,
			Interval: settings.Interval,
			Timeout:  settings.OpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= settings.MaxFailures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, common.ErrNotFound) ||
					errors.Is(err, common.ErrConflict) || errors.Is(err, common.ErrValidation)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Telemetry store breaker changed state",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) run(op string, fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return common.ExternalError(op, err)
	}
	return err
}

func (b *BreakerStore) CreateSeries(sourceID, seriesID string) error {
	return b.run("create series", func() error { return b.next.CreateSeries(sourceID, seriesID) })
}

func (b *BreakerStore) RenameSeries(sourceID, fromID, toID string) error {
	return b.run("rename series", func() error { return b.next.RenameSeries(sourceID, fromID, toID) })
}

func (b *BreakerStore) ReadRows(sourceID, seriesID string) ([][]string, error) {
	var rows [][]string
	err := b.run("read rows", func() error {
		var err error
		rows, err = b.next.ReadRows(sourceID, seriesID)
		return err
	})
	return rows, err
}

func (b *BreakerStore) DeleteSeries(sourceID, seriesID string) error {
	return b.run("delete series", func() error { return b.next.DeleteSeries(sourceID, seriesID) })
}

func (b *BreakerStore) AppendRow(sourceID, seriesID string, row []string) error {
	return b.run("append row", func() error { return b.next.AppendRow(sourceID, seriesID, row) })
}
