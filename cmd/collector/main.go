package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/collector"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
	"liyu1981.xyz/plant-monitor-service/pkg/sheets"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	broker := common.GetEnvOr(common.EnvKeyPlantMqttBroker, "")
	if broker == "" {
		log.Fatal("PLANT_MQTT_BROKER is not set in .env, e.g. tcp://127.0.0.1:1883")
	}

	location, err := plant.LoadLocation(common.GetEnvOr(common.EnvKeyPlantTimezone, common.DefaultTimezone))
	if err != nil {
		log.Fatalf("Invalid PLANT_TIMEZONE: %v", err)
	}

	workbook, err := sheets.NewWorkbook(common.GetEnvOr(common.EnvKeyPlantSheetsDir, common.DefaultSheetsDir))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := common.GetLoggerWith(common.LoggerNameCollector)

	cfg := collector.Config{
		Broker:     broker,
		ClientID:   common.GetEnvOr(common.EnvKeyPlantMqttClientID, common.DefaultMqttClient),
		Topic:      common.GetEnvOr(common.EnvKeyPlantMqttTopic, common.DefaultMqttTopic),
		MaxRetries: 5,
		MaxElapsed: 30 * time.Second,
	}

	client, err := collector.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("collector failed to connect: %v", err)
	}

	c := &collector.Collector{
		Store:    plant.NewBreakerStore(workbook, plant.BreakerSettings{Name: "collector_store", OpenFor: 30 * time.Second}),
		SourceID: common.GetEnvOr(common.EnvKeyPlantSourceID, common.DefaultSourceID),
		Location: location,
	}

	logger.Info("Collector started", zap.String("topic", cfg.Topic), zap.String("source_id", c.SourceID))
	if err := c.Run(ctx, client, cfg.Topic); err != nil {
		log.Fatalf("collector stopped: %v", err)
	}
}
