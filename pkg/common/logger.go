package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const EnvKeyPlantLogsDir string = "PLANT_LOGS_DIR"

var (
	logger *zap.Logger
	mu     sync.RWMutex
	once   sync.Once
)

func getLogger() *zap.Logger {
	once.Do(initLogger)
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func GetLogger() *zap.Logger {
	return getLogger().Named("default")
}

func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return getLogger().Named(name).With(fields...)
}

func logsDir() string {
	if dir, found := os.LookupEnv(EnvKeyPlantLogsDir); found && dir != "" {
		return dir
	}
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting current directory: %v", err)
	}
	return filepath.Join(dir, "logs")
}

func initLogger() {
	dir := logsDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Fatalf("Error find/create logs directory: %v", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "plant.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28,   // days
		Compress:   true, // gzip
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)

	var l *zap.Logger
	if IsProduction() {
		l = zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)
		l = zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	mu.Lock()
	logger = l
	mu.Unlock()
}

func setLogger(l *zap.Logger) {
	once.Do(initLogger)
	mu.Lock()
	logger = l
	mu.Unlock()
}

func SetTestCaptureLogger(buf *bytes.Buffer, level zapcore.Level) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(buf), level)
	setLogger(zap.New(core))
}

func SetTestLoggerNop() {
	setLogger(zap.NewNop())
}
