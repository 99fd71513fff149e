package plant

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

var (
	macPattern = regexp.MustCompile(`^[0-9A-F]{2}([:.\-]?[0-9A-F]{2})+$`)

	photoExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
)

func registryLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNamePlantCore,
		zap.String(common.LoggerFieldPlantCategory, common.LoggerCategoryPlantRegistry),
	)
}

// maxMACOctets covers EUI-48 and EUI-64 addresses.
const maxMACOctets = 8

func stripMACSeparators(mac string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '-', '.':
			return -1
		}
		return r
	}, mac)
}

// NormalizeMAC maps every spelling of a hardware address (any case, colon, dash,
// dot or no separators) to upper-case colon-separated octets.
func NormalizeMAC(mac string) (string, error) {
	raw := strings.ToUpper(strings.TrimSpace(mac))
	if !macPattern.MatchString(raw) {
		return "", common.Validationf("invalid mac address %q", mac)
	}
	digits := stripMACSeparators(raw)
	if len(digits) > maxMACOctets*2 {
		return "", common.Validationf("invalid mac address %q", mac)
	}
	octets := make([]string, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		octets = append(octets, digits[i:i+2])
	}
	return strings.Join(octets, ":"), nil
}

// CanonicalIdentifier is the form identifiers are stored and keyed under.
// MACs are normalized; placeholder UUIDs and anything else only get trimmed.
func CanonicalIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if _, err := uuid.Parse(identifier); err == nil {
		return identifier
	}
	if mac, err := NormalizeMAC(identifier); err == nil {
		return mac
	}
	return identifier
}

// DefaultDeviceName labels an auto-registered device by the last four hex digits of its MAC.
func DefaultDeviceName(mac string) string {
	digits := stripMACSeparators(mac)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "Plant-" + digits
}

func translateDBError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case common.ErrorKind(err) != "internal":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NotFoundf("%s", op)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return common.Conflictf("%s: device identifier already registered", op)
	default:
		return common.ExternalError(op, err)
	}
}

func storeError(op string, err error) error {
	metrics.ObserveStoreError(op)
	if common.ErrorKind(err) != "internal" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return common.ExternalError(op, err)
}

// photoName picks a fresh stored name for photo, keeping its extension.
func (p *Plant) photoName(photo *models.Photo) (string, error) {
	if p.Files == nil {
		return "", common.Validationf("photo uploads are not configured")
	}
	ext := strings.ToLower(filepath.Ext(photo.Filename))
	if !photoExtensions[ext] {
		return "", common.Validationf("unsupported photo type %q", ext)
	}
	return uuid.NewString() + ext, nil
}

func (p *Plant) savePhoto(photo *models.Photo) (string, error) {
	name, err := p.photoName(photo)
	if err != nil {
		return "", err
	}
	return p.Files.Save(name, photo.Body)
}

func (p *Plant) discardPhoto(ref string) {
	if p.Files == nil || !p.Files.Owns(ref) {
		return
	}
	if err := p.Files.Delete(ref); err != nil && !errors.Is(err, common.ErrNotFound) {
		registryLogger().Warn("Failed to delete photo", zap.String("photo_reference", ref), zap.Error(err))
	}
}

func (p *Plant) registerManual(name string, photo *models.Photo) (*models.Device, error) {
	logger := registryLogger()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validationf("display name is required")
	}

	photoRef := common.DefaultPhotoReference
	if photo != nil {
		ref, err := p.savePhoto(photo)
		if err != nil {
			return nil, err
		}
		photoRef = ref
	}

	identifier := uuid.NewString()
	device := models.Device{
		DisplayName:      name,
		PhotoReference:   photoRef,
		DataSourceID:     p.SourceID,
		DeviceIdentifier: &identifier,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	seriesCreated := false
	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&device).Error; err != nil {
			return translateDBError("create device", err)
		}
		if err := p.Store.CreateSeries(device.DataSourceID, identifier); err != nil {
			return storeError("create series", err)
		}
		seriesCreated = true
		return nil
	})
	if err != nil {
		if seriesCreated {
			_ = p.Store.DeleteSeries(device.DataSourceID, identifier)
		}
		p.discardPhoto(photoRef)
		logger.Error("Failed to register device", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	logger.Info("Registered device", zap.Reflect("device", device))
	return &device, nil
}

// attachSeries moves the placeholder series of a paired record over to its MAC.
// A series already named after the MAC is kept as is.
func (p *Plant) attachSeries(sourceID string, placeholder *string, mac string) (created bool, err error) {
	if placeholder != nil {
		err = p.Store.RenameSeries(sourceID, *placeholder, mac)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, common.ErrSeriesNotFound) {
			if errors.Is(err, common.ErrSeriesExists) {
				registryLogger().Warn("Series for mac already exists, keeping it",
					zap.String("mac", mac), zap.String("placeholder", *placeholder))
				return false, nil
			}
			return false, storeError("rename series", err)
		}
	}

	err = p.Store.CreateSeries(sourceID, mac)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrSeriesExists):
		return false, nil
	default:
		return false, storeError("create series", err)
	}
}

func (p *Plant) registerAuto(mac string) (*models.Device, models.PairingOutcome, error) {
	logger := registryLogger()

	mac, err := NormalizeMAC(mac)
	if err != nil {
		return nil, "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		device        models.Device
		outcome       models.PairingOutcome
		placeholder   *string
		seriesCreated bool
		seriesMoved   bool
	)

	err = p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("device_identifier = ?", mac).First(&device).Error
		if err == nil {
			outcome = models.PairingAlreadyPaired
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return translateDBError("find device", err)
		}

		err = tx.Where("paired = ? OR device_identifier IS NULL", false).Order("id asc").First(&device).Error
		if err == nil {
			placeholder = device.DeviceIdentifier
			if err := tx.Model(&device).Updates(map[string]any{
				"device_identifier": mac,
				"paired":            true,
			}).Error; err != nil {
				return translateDBError("pair device", err)
			}
			device.DeviceIdentifier = &mac
			device.Paired = true

			created, err := p.attachSeries(device.DataSourceID, placeholder, mac)
			if err != nil {
				return err
			}
			seriesCreated = created
			seriesMoved = !created && placeholder != nil
			outcome = models.PairingPairedExisting
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return translateDBError("find unpaired device", err)
		}

		device = models.Device{
			DisplayName:      DefaultDeviceName(mac),
			PhotoReference:   common.DefaultPhotoReference,
			DataSourceID:     p.SourceID,
			DeviceIdentifier: &mac,
			Paired:           true,
		}
		if err := tx.Create(&device).Error; err != nil {
			return translateDBError("create device", err)
		}
		created, err := p.attachSeries(device.DataSourceID, nil, mac)
		if err != nil {
			return err
		}
		seriesCreated = created
		outcome = models.PairingCreatedNew
		return nil
	})
	if err != nil {
		switch {
		case seriesCreated:
			_ = p.Store.DeleteSeries(device.DataSourceID, mac)
		case seriesMoved:
			_ = p.Store.RenameSeries(device.DataSourceID, mac, *placeholder)
		}
		logger.Error("Failed to register device", zap.String("mac", mac), zap.Error(err))
		return nil, "", err
	}

	logger.Info("Device registration", zap.String("outcome", string(outcome)), zap.Reflect("device", device))
	metrics.ObserveRegistration(string(outcome))
	return &device, outcome, nil
}

func (p *Plant) getByID(id uint) (*models.Device, error) {
	var device models.Device
	if err := p.Db.Conn.First(&device, id).Error; err != nil {
		return nil, translateDBError(fmt.Sprintf("device %d", id), err)
	}
	return &device, nil
}

func (p *Plant) getByIdentifier(identifier string) (*models.Device, error) {
	identifier = CanonicalIdentifier(identifier)
	var device models.Device
	if err := p.Db.Conn.Where("device_identifier = ?", identifier).First(&device).Error; err != nil {
		return nil, translateDBError(fmt.Sprintf("device %s", identifier), err)
	}
	return &device, nil
}

func (p *Plant) listDevices() ([]models.Device, error) {
	var devices []models.Device
	if err := p.Db.Conn.Order("id asc").Find(&devices).Error; err != nil {
		return nil, translateDBError("list devices", err)
	}
	return devices, nil
}

func (p *Plant) updateDevice(id uint, name string, photo *models.Photo) (*models.Device, error) {
	logger := registryLogger()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validationf("display name is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	device, err := p.getByID(id)
	if err != nil {
		return nil, err
	}

	if photo != nil {
		stored, err := p.photoName(photo)
		if err != nil {
			return nil, err
		}
		previous := device.PhotoReference
		p.discardPhoto(previous)
		ref, err := p.Files.Save(stored, photo.Body)
		if err != nil {
			logger.Error("Failed to save photo", zap.Uint("id", id), zap.Error(err))
			if p.Files.Owns(previous) {
				// the previous file is gone, fall back to the placeholder
				if err := p.Db.Conn.Model(device).Update("photo_reference", common.DefaultPhotoReference).Error; err != nil {
					logger.Warn("Failed to reset photo reference", zap.Uint("id", id), zap.Error(err))
				}
			}
			return nil, err
		}
		device.PhotoReference = ref
	}
	device.DisplayName = name

	if err := p.Db.Conn.Model(device).Updates(map[string]any{
		"display_name":    device.DisplayName,
		"photo_reference": device.PhotoReference,
	}).Error; err != nil {
		logger.Error("Failed to update device", zap.Uint("id", id), zap.Error(err))
		if photo != nil {
			p.discardPhoto(device.PhotoReference)
		}
		return nil, translateDBError("update device", err)
	}

	logger.Info("Updated device", zap.Reflect("device", device))
	return device, nil
}

// deleteDevice cleans up the external series and photo before removing the
// record; cleanup failures are logged and do not block the deletion.
func (p *Plant) deleteDevice(id uint) (*models.Device, error) {
	logger := registryLogger()

	p.mu.Lock()
	defer p.mu.Unlock()

	device, err := p.getByID(id)
	if err != nil {
		return nil, err
	}

	if identifier := device.Identifier(); identifier != "" {
		if err := p.Store.DeleteSeries(device.DataSourceID, identifier); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Warn("Series already gone", zap.String("device_identifier", identifier))
			} else {
				metrics.ObserveStoreError("delete series")
				logger.Error("Failed to delete series", zap.String("device_identifier", identifier), zap.Error(err))
			}
		}
		if p.Mailbox != nil {
			p.Mailbox.Drop(identifier)
		}
	}

	p.discardPhoto(device.PhotoReference)

	if err := p.Db.Conn.Delete(device).Error; err != nil {
		logger.Error("Failed to delete device", zap.Uint("id", id), zap.Error(err))
		return nil, translateDBError("delete device", err)
	}

	logger.Info("Deleted device", zap.Reflect("device", device))
	return device, nil
}

type IRegistryImpl struct {
	plant *Plant
}

func (ir *IRegistryImpl) RegisterManual(name string, photo *models.Photo) (*models.Device, error) {
	return ir.plant.registerManual(name, photo)
}

func (ir *IRegistryImpl) RegisterAuto(mac string) (*models.Device, models.PairingOutcome, error) {
	return ir.plant.registerAuto(mac)
}

func (ir *IRegistryImpl) GetByID(id uint) (*models.Device, error) {
	return ir.plant.getByID(id)
}

func (ir *IRegistryImpl) GetByIdentifier(identifier string) (*models.Device, error) {
	return ir.plant.getByIdentifier(identifier)
}

func (ir *IRegistryImpl) List() ([]models.Device, error) {
	return ir.plant.listDevices()
}

func (ir *IRegistryImpl) Update(id uint, name string, photo *models.Photo) (*models.Device, error) {
	return ir.plant.updateDevice(id, name, photo)
}

func (ir *IRegistryImpl) Delete(id uint) (*models.Device, error) {
	return ir.plant.deleteDevice(id)
}

func (p *Plant) GetIRegistry() IRegistry {
	return &IRegistryImpl{plant: p}
}
