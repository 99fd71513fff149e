package plant

import (
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

// Mailbox holds at most one undelivered command per device identifier. A newer
// command replaces the older one. Nothing survives a restart. Entries are keyed
// by CanonicalIdentifier.
type Mailbox struct {
	mu      sync.Mutex
	entries map[string]models.Command
}

func NewMailbox() *Mailbox {
	return &Mailbox{entries: make(map[string]models.Command)}
}

func mailboxLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNamePlantCore,
		zap.String(common.LoggerFieldPlantCategory, common.LoggerCategoryPlantMailbox),
	)
}

func (m *Mailbox) SetCommand(identifier string, kind models.CommandKind, value int) error {
	identifier = CanonicalIdentifier(identifier)
	if identifier == "" {
		return common.Validationf("device identifier is required")
	}
	if !kind.Valid() {
		return common.Validationf("unknown command kind %d", kind)
	}

	cmd := models.Command{Kind: kind, Value: value}

	m.mu.Lock()
	previous, replaced := m.entries[identifier]
	m.entries[identifier] = cmd
	pending := len(m.entries)
	m.mu.Unlock()

	logger := mailboxLogger()
	if replaced {
		logger.Info("Replaced undelivered command",
			zap.String("device_identifier", identifier),
			zap.Reflect("previous", previous),
			zap.Reflect("command", cmd))
	} else {
		logger.Info("Queued command", zap.String("device_identifier", identifier), zap.Reflect("command", cmd))
	}

	metrics.ObserveCommand(kind.String(), pending)
	return nil
}

func (m *Mailbox) GetCommand(identifier string) (models.Command, bool) {
	identifier = CanonicalIdentifier(identifier)
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd, ok := m.entries[identifier]
	return cmd, ok
}

func (m *Mailbox) Acknowledge(identifier string) bool {
	identifier = CanonicalIdentifier(identifier)
	m.mu.Lock()
	cmd, ok := m.entries[identifier]
	delete(m.entries, identifier)
	pending := len(m.entries)
	m.mu.Unlock()

	if !ok {
		return false
	}

	mailboxLogger().Info("Command acknowledged", zap.String("device_identifier", identifier), zap.Reflect("command", cmd))
	metrics.ObserveAck(pending)
	return true
}

// Drop discards any pending command without counting it as delivered.
func (m *Mailbox) Drop(identifier string) {
	identifier = CanonicalIdentifier(identifier)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, identifier)
}

func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
