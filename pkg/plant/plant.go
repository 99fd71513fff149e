package plant

import (
	"io"
	"sync"
	"time"

	"liyu1981.xyz/plant-monitor-service/pkg/db"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

// ISeriesStore is the external tabular source holding one telemetry series per device.
type ISeriesStore interface {
	CreateSeries(sourceID, seriesID string) error
	RenameSeries(sourceID, fromID, toID string) error
	ReadRows(sourceID, seriesID string) ([][]string, error)
	DeleteSeries(sourceID, seriesID string) error
	AppendRow(sourceID, seriesID string, row []string) error
}

type IFileStore interface {
	Save(name string, body io.Reader) (string, error)
	Delete(ref string) error
	Exists(ref string) bool
	Owns(ref string) bool
}

type IRegistry interface {
	RegisterManual(name string, photo *models.Photo) (*models.Device, error)
	RegisterAuto(mac string) (*models.Device, models.PairingOutcome, error)
	GetByID(id uint) (*models.Device, error)
	GetByIdentifier(identifier string) (*models.Device, error)
	List() ([]models.Device, error)
	Update(id uint, name string, photo *models.Photo) (*models.Device, error)
	Delete(id uint) (*models.Device, error)
}

type IMailbox interface {
	SetCommand(identifier string, kind models.CommandKind, value int) error
	GetCommand(identifier string) (models.Command, bool)
	Acknowledge(identifier string) bool
	Drop(identifier string)
	Pending() int
}

type IReset interface {
	RequestReset(identifier string) error
	PollAndClear(identifier string) (bool, error)
}

type ITelemetry interface {
	Query(sourceID, seriesID string, rng *models.TimeRange) ([]models.Reading, error)
	Recent(sourceID, seriesID string, n int) ([]models.Reading, error)
}

// Plant wires the registry, mailbox, reset latch and telemetry engine around
// shared collaborators. Registry writes are serialized by mu on top of the
// database transaction.
type Plant struct {
	Db       db.DB
	Store    ISeriesStore
	Files    IFileStore
	SourceID string
	Location *time.Location

	Registry  IRegistry
	Mailbox   IMailbox
	Reset     IReset
	Telemetry ITelemetry

	mu sync.Mutex
}

type ServiceOpts struct {
	Registry  IRegistry
	Mailbox   IMailbox
	Reset     IReset
	Telemetry ITelemetry
}

func (p *Plant) WithServices(opts ServiceOpts) *Plant {
	if opts.Registry != nil {
		p.Registry = opts.Registry
	}
	if opts.Mailbox != nil {
		p.Mailbox = opts.Mailbox
	}
	if opts.Reset != nil {
		p.Reset = opts.Reset
	}
	if opts.Telemetry != nil {
		p.Telemetry = opts.Telemetry
	}
	return p
}

// WithDefaultServices installs the built-in implementation of every service.
func (p *Plant) WithDefaultServices() *Plant {
	return p.WithServices(ServiceOpts{
		Registry:  p.GetIRegistry(),
		Mailbox:   NewMailbox(),
		Reset:     p.GetIReset(),
		Telemetry: p.GetITelemetry(),
	})
}

func (p *Plant) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
