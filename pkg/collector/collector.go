// Package collector appends telemetry published by devices over MQTT to their
// series in the telemetry store.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
)

const topicSuffix = "telemetry"

type Config struct {
	Broker     string
	ClientID   string
	Topic      string
	MaxRetries int
	MaxElapsed time.Duration
}

// Payload is what a device publishes. Timestamp is optional; the receive
// time is used when it is missing.
type Payload struct {
	Timestamp    string   `json:"timestamp"`
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SoilMoisture *float64 `json:"soil_moisture"`
	Light        *float64 `json:"light"`
}

type Collector struct {
	Store    plant.ISeriesStore
	SourceID string
	Location *time.Location
	Now      func() time.Time
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameCollector)
}

// IdentifierFromTopic extracts the canonical device identifier from
// plants/<identifier>/telemetry.
func IdentifierFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[len(parts)-1] != topicSuffix {
		return "", common.Validationf("unexpected topic %q", topic)
	}
	identifier := strings.TrimSpace(parts[len(parts)-2])
	if identifier == "" || identifier == "+" || identifier == "#" {
		return "", common.Validationf("no device identifier in topic %q", topic)
	}
	return plant.CanonicalIdentifier(identifier), nil
}

func formatMeasurement(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatRow renders a reading in series column order with the canonical
// timestamp in loc.
func FormatRow(r models.Reading, loc *time.Location) []string {
	return []string{
		plant.FormatTimestamp(r.Timestamp, loc),
		formatMeasurement(r.Temperature),
		formatMeasurement(r.Humidity),
		formatMeasurement(r.SoilMoisture),
		formatMeasurement(r.Light),
	}
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Collector) timestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return c.now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := plant.ParseTimestamp(value, c.Location)
	if err != nil {
		return time.Time{}, common.Validationf("%s", err)
	}
	return t, nil
}

// HandleMessage decodes one published payload and appends it as a row.
func (c *Collector) HandleMessage(topic string, payload []byte) error {
	identifier, err := IdentifierFromTopic(topic)
	if err != nil {
		return err
	}

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return common.Validationf("decode payload from %s: %s", identifier, err)
	}

	ts, err := c.timestamp(p.Timestamp)
	if err != nil {
		return err
	}

	row := FormatRow(models.Reading{
		Timestamp:    ts,
		Temperature:  p.Temperature,
		Humidity:     p.Humidity,
		SoilMoisture: p.SoilMoisture,
		Light:        p.Light,
	}, c.Location)

	if err := c.Store.AppendRow(c.SourceID, identifier, row); err != nil {
		return fmt.Errorf("append row for %s: %w", identifier, err)
	}

	logger().Debug("Appended telemetry row", zap.String("device_identifier", identifier), zap.Strings("row", row))
	return nil
}

func (c *Collector) onMessage(_ mqtt.Client, msg mqtt.Message) {
	if err := c.HandleMessage(msg.Topic(), msg.Payload()); err != nil {
		logger().Warn("Dropped telemetry message",
			zap.String("topic", msg.Topic()),
			zap.String("kind", common.ErrorKind(err)),
			zap.Error(err))
	}
}

// Connect dials the broker, retrying with exponential backoff.
func Connect(ctx context.Context, cfg Config) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	if cfg.MaxElapsed > 0 {
		bo.MaxElapsedTime = cfg.MaxElapsed
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 5
	}

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			logger().Warn("Failed to connect to MQTT broker", zap.String("broker", cfg.Broker), zap.Error(token.Error()))
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx))
	if err != nil {
		return nil, common.ExternalError("connect mqtt broker", err)
	}

	logger().Info("Connected to MQTT broker", zap.String("broker", cfg.Broker))
	return client, nil
}

// Run subscribes to topic and blocks until ctx is done.
func (c *Collector) Run(ctx context.Context, client mqtt.Client, topic string) error {
	token := client.Subscribe(topic, 1, c.onMessage)
	if token.Wait() && token.Error() != nil {
		return common.ExternalError("subscribe "+topic, token.Error())
	}
	logger().Info("Subscribed to telemetry", zap.String("topic", topic))

	<-ctx.Done()

	client.Unsubscribe(topic).Wait()
	client.Disconnect(250)
	logger().Info("MQTT connection is closed")
	return nil
}
