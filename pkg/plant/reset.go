package plant

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

func resetLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNamePlantCore,
		zap.String(common.LoggerFieldPlantCategory, common.LoggerCategoryPlantReset),
	)
}

// requestReset raises the persisted latch; it stays up until the device polls it.
func (p *Plant) requestReset(identifier string) error {
	identifier = CanonicalIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var device models.Device
		if err := tx.Where("device_identifier = ?", identifier).First(&device).Error; err != nil {
			return translateDBError("device "+identifier, err)
		}
		if err := tx.Model(&device).Update("reset_pending", true).Error; err != nil {
			return translateDBError("raise reset latch", err)
		}
		return nil
	})
	if err != nil {
		resetLogger().Warn("Reset request rejected", zap.String("device_identifier", identifier), zap.Error(err))
		return err
	}

	resetLogger().Info("Reset requested", zap.String("device_identifier", identifier))
	metrics.ObserveReset(metrics.ResetRequested)
	return nil
}

// pollAndClear reports a pending reset exactly once. Unknown identifiers are
// simply "not pending".
func (p *Plant) pollAndClear(identifier string) (bool, error) {
	identifier = CanonicalIdentifier(identifier)
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := false
	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var device models.Device
		err := tx.Where("device_identifier = ?", identifier).First(&device).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return translateDBError("device "+identifier, err)
		}
		if !device.ResetPending {
			return nil
		}
		if err := tx.Model(&device).Update("reset_pending", false).Error; err != nil {
			return translateDBError("clear reset latch", err)
		}
		pending = true
		return nil
	})
	if err != nil {
		resetLogger().Error("Reset poll failed", zap.String("device_identifier", identifier), zap.Error(err))
		return false, err
	}

	if pending {
		resetLogger().Info("Reset delivered", zap.String("device_identifier", identifier))
		metrics.ObserveReset(metrics.ResetDelivered)
	}
	return pending, nil
}

type IResetImpl struct {
	plant *Plant
}

func (ir *IResetImpl) RequestReset(identifier string) error {
	return ir.plant.requestReset(identifier)
}

func (ir *IResetImpl) PollAndClear(identifier string) (bool, error) {
	return ir.plant.pollAndClear(identifier)
}

func (p *Plant) GetIReset() IReset {
	return &IResetImpl{plant: p}
}
