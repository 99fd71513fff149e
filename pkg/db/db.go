package db

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance returns the process-wide connection, opening and migrating it on first use.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		if instance, err = NewInstance(dialector); err != nil {
			log.Fatal("Failed to open database: ", err)
		}
	})
	return instance
}

// NewInstance opens a dedicated connection. Writes to sqlite are funneled
// through a single connection so transactions never see "database is locked".
func NewInstance(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(&models.Device{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign key support: %w", err)
	}

	if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("set sqlite journal mode: %w", err)
	}

	return &DB{Conn: conn}, nil
}

func gormLogger() logger.Interface {
	if common.IsDevelopment() {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeyPlantDbPath); !found {
		dbPath = "plants.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseIsolatedMemorySqliteDialector gives every caller its own named in-memory database.
func UseIsolatedMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}
