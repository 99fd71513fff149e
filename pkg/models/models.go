package models

import (
	"io"
	"time"
)

type PairingOutcome string

const (
	PairingAlreadyPaired  PairingOutcome = "ALREADY_PAIRED"
	PairingPairedExisting PairingOutcome = "PAIRED_EXISTING"
	PairingCreatedNew     PairingOutcome = "CREATED_NEW"
)

// Device is a logical plant record. DeviceIdentifier holds either the unit's MAC
// address or a generated UUID standing in until a unit pairs with the record.
type Device struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	DisplayName      string    `gorm:"not null" json:"display_name"`
	PhotoReference   string    `json:"photo_reference"`
	DataSourceID     string    `gorm:"not null" json:"data_source_id"`
	DeviceIdentifier *string   `gorm:"uniqueIndex" json:"device_identifier"`
	Paired           bool      `gorm:"index" json:"paired"`
	ResetPending     bool      `json:"reset_pending"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (d *Device) Identifier() string {
	if d.DeviceIdentifier == nil {
		return ""
	}
	return *d.DeviceIdentifier
}

type CommandKind int

const (
	CommandSetMoistureThreshold CommandKind = 1
	CommandSetPeriodicMode      CommandKind = 2
	CommandTriggerWatering      CommandKind = 3
	CommandSetAutoWatering      CommandKind = 4
)

func (k CommandKind) Valid() bool {
	return k >= CommandSetMoistureThreshold && k <= CommandSetAutoWatering
}

func (k CommandKind) String() string {
	switch k {
	case CommandSetMoistureThreshold:
		return "set_moisture_threshold"
	case CommandSetPeriodicMode:
		return "set_periodic_mode"
	case CommandTriggerWatering:
		return "trigger_watering"
	case CommandSetAutoWatering:
		return "set_auto_watering"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind  CommandKind `json:"kind"`
	Value int         `json:"value"`
}

// Reading is one normalized telemetry row. A nil measurement means the source
// cell was empty or not a number.
type Reading struct {
	Timestamp    time.Time `json:"timestamp"`
	Temperature  *float64  `json:"temperature"`
	Humidity     *float64  `json:"humidity"`
	SoilMoisture *float64  `json:"soil_moisture"`
	Light        *float64  `json:"light"`
}

// SeriesHeader is the first row written to every new telemetry series.
var SeriesHeader = []string{"timestamp", "temperature", "humidity", "soil_moisture", "light"}

// TimeRange is an inclusive interval of instants.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Photo is an uploaded image waiting to be stored.
type Photo struct {
	Filename string
	Body     io.Reader
}
