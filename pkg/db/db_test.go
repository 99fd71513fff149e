package db

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
	_ "liyu1981.xyz/plant-monitor-service/pkg/testing"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	if !tableExists(instance.Conn, "devices") {
		t.Errorf("Expected table %q to exist after migration", "devices")
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instances <- GetInstance(UseMemorySqliteDialector())
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestIsolatedInstancesDoNotShareRows(t *testing.T) {
	common.SetTestLoggerNop()

	a, err := NewInstance(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	b, err := NewInstance(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	identifier := uuid.NewString()
	require.NoError(t, a.Conn.Create(&models.Device{
		DisplayName:      "Basil",
		DataSourceID:     common.DefaultSourceID,
		DeviceIdentifier: &identifier,
	}).Error)

	var countA, countB int64
	require.NoError(t, a.Conn.Model(&models.Device{}).Count(&countA).Error)
	require.NoError(t, b.Conn.Model(&models.Device{}).Count(&countB).Error)
	assert.Equal(t, int64(1), countA)
	assert.Equal(t, int64(0), countB)
}

func TestDeviceIdentifierIsUnique(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := NewInstance(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	mac := "AA:BB:CC:DD:EE:FF"
	require.NoError(t, instance.Conn.Create(&models.Device{DisplayName: "one", DataSourceID: "s", DeviceIdentifier: &mac}).Error)

	err = instance.Conn.Create(&models.Device{DisplayName: "two", DataSourceID: "s", DeviceIdentifier: &mac}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE"), err.Error())

	// nulls never collide
	require.NoError(t, instance.Conn.Create(&models.Device{DisplayName: "three", DataSourceID: "s"}).Error)
	require.NoError(t, instance.Conn.Create(&models.Device{DisplayName: "four", DataSourceID: "s"}).Error)
}
