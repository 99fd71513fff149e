package plant

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

const (
	columnTimestamp = iota
	columnTemperature
	columnHumidity
	columnSoilMoisture
	columnLight
)

func telemetryLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNamePlantCore,
		zap.String(common.LoggerFieldPlantCategory, common.LoggerCategoryPlantTelemetry),
	)
}

func parseMeasurement(row []string, column int) *float64 {
	if column >= len(row) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[column]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NormalizeRows turns raw cells into readings. Rows whose timestamp cannot be
// parsed are dropped, which also drops the header row.
func NormalizeRows(rows [][]string, loc *time.Location) []models.Reading {
	readings := make([]models.Reading, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		ts, err := ParseTimestamp(row[columnTimestamp], loc)
		if err != nil {
			continue
		}
		readings = append(readings, models.Reading{
			Timestamp:    ts,
			Temperature:  parseMeasurement(row, columnTemperature),
			Humidity:     parseMeasurement(row, columnHumidity),
			SoilMoisture: parseMeasurement(row, columnSoilMoisture),
			Light:        parseMeasurement(row, columnLight),
		})
	}
	return readings
}

// FillForward replaces missing measurements with the previous row's value.
func FillForward(readings []models.Reading) []models.Reading {
	out := make([]models.Reading, len(readings))
	var last models.Reading
	for i, r := range readings {
		if r.Temperature == nil {
			r.Temperature = last.Temperature
		}
		if r.Humidity == nil {
			r.Humidity = last.Humidity
		}
		if r.SoilMoisture == nil {
			r.SoilMoisture = last.SoilMoisture
		}
		if r.Light == nil {
			r.Light = last.Light
		}
		out[i] = r
		last = r
	}
	return out
}

// newestFirst orders by instant descending; equal instants keep source order.
func newestFirst(readings []models.Reading) []models.Reading {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, func(a, b models.Reading) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return sorted
}

// chronological orders by instant ascending; equal instants keep source order.
func chronological(readings []models.Reading) []models.Reading {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, func(a, b models.Reading) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

func (p *Plant) readReadings(sourceID, seriesID string) ([]models.Reading, error) {
	rows, err := p.Store.ReadRows(sourceID, seriesID)
	if err != nil {
		telemetryLogger().Warn("Failed to read series",
			zap.String("source_id", sourceID),
			zap.String("series", seriesID),
			zap.Error(err))
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundf("telemetry series %s", seriesID)
		}
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.ExternalError("read telemetry", err)
	}
	if len(rows) < 2 {
		return []models.Reading{}, nil
	}
	return NormalizeRows(rows, p.location()), nil
}

func (p *Plant) queryTelemetry(sourceID, seriesID string, rng *models.TimeRange) (result []models.Reading, err error) {
	started := time.Now()
	defer func() {
		if err != nil {
			metrics.ObserveQuery(metrics.ResultError, started)
		} else {
			metrics.ObserveQuery(metrics.ResultSuccess, started)
		}
	}()

	if rng != nil && rng.End.Before(rng.Start) {
		return nil, common.Validationf("range end %s is before start %s", rng.End, rng.Start)
	}

	readings, err := p.readReadings(sourceID, seriesID)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		if len(readings) == 0 {
			return readings, nil
		}
		return newestFirst(readings)[:1], nil
	}

	return common.Filter(readings, func(r models.Reading) bool {
		return rng.Contains(r.Timestamp)
	}), nil
}

// recentTelemetry returns the latest n readings, oldest first, ready to chart.
func (p *Plant) recentTelemetry(sourceID, seriesID string, n int) ([]models.Reading, error) {
	if n < 1 {
		return nil, common.Validationf("limit must be positive, got %d", n)
	}

	started := time.Now()
	readings, err := p.readReadings(sourceID, seriesID)
	if err != nil {
		metrics.ObserveQuery(metrics.ResultError, started)
		return nil, err
	}
	metrics.ObserveQuery(metrics.ResultSuccess, started)

	sorted := chronological(readings)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted, nil
}

type ITelemetryImpl struct {
	plant *Plant
}

func (it *ITelemetryImpl) Query(sourceID, seriesID string, rng *models.TimeRange) ([]models.Reading, error) {
	return it.plant.queryTelemetry(sourceID, seriesID, rng)
}

func (it *ITelemetryImpl) Recent(sourceID, seriesID string, n int) ([]models.Reading, error) {
	return it.plant.recentTelemetry(sourceID, seriesID, n)
}

func (p *Plant) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{plant: p}
}
