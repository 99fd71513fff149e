package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/db"
	plantGrpc "liyu1981.xyz/plant-monitor-service/pkg/grpc"
	plantHttp "liyu1981.xyz/plant-monitor-service/pkg/http"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
	"liyu1981.xyz/plant-monitor-service/pkg/sheets"
	"liyu1981.xyz/plant-monitor-service/pkg/uploads"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	plantDbType := os.Getenv(common.EnvKeyPlantDBType)
	switch plantDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown PLANT_DB_TYPE: " + plantDbType)
	}

	grpcHostPort := common.GetEnvOr(common.EnvKeyPlantGrpcHostPort, "")
	httpHostPort := common.GetEnvOr(common.EnvKeyPlantHttpHostPort, common.DefaultHttpPort)

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyPlantDefaultRate), 64); err != nil {
		log.Fatal("Invalid PLANT_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyPlantDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid PLANT_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	breakerFailures, err := common.GetEnvIntOr(common.EnvKeyPlantBreakerFailures, 5)
	if err != nil || breakerFailures < 1 {
		log.Fatal("Invalid PLANT_BREAKER_FAILURES, should be a positive int value")
	}
	breakerOpenMs, err := common.GetEnvIntOr(common.EnvKeyPlantBreakerOpenMs, 30000)
	if err != nil || breakerOpenMs < 0 {
		log.Fatal("Invalid PLANT_BREAKER_OPEN_MS, should be a non-negative int value")
	}

	location, err := plant.LoadLocation(common.GetEnvOr(common.EnvKeyPlantTimezone, common.DefaultTimezone))
	if err != nil {
		log.Fatalf("Invalid PLANT_TIMEZONE: %v", err)
	}

	workbook, err := sheets.NewWorkbook(common.GetEnvOr(common.EnvKeyPlantSheetsDir, common.DefaultSheetsDir))
	if err != nil {
		log.Fatal(err)
	}

	uploadsDir := common.GetEnvOr(common.EnvKeyPlantUploadsDir, common.DefaultUploadsDir)
	files, err := uploads.NewDir(uploadsDir)
	if err != nil {
		log.Fatal(err)
	}

	logger := common.GetLogger()
	metrics.Init()

	plantCore := plant.Plant{
		Db: *dbInstance,
		Store: plant.NewBreakerStore(workbook, plant.BreakerSettings{
			Name:        "telemetry_store",
			MaxFailures: uint32(breakerFailures),
			OpenFor:     time.Duration(breakerOpenMs) * time.Millisecond,
		}),
		Files:    files,
		SourceID: common.GetEnvOr(common.EnvKeyPlantSourceID, common.DefaultSourceID),
		Location: location,
	}
	plantCore.WithDefaultServices()

	logger.Info("Plant core created with:",
		zap.String("source_id", plantCore.SourceID),
		zap.String("timezone", location.String()),
		zap.String("sheets_dir", workbook.Dir))

	if grpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + grpcHostPort)
		go func() {
			plantGrpcServer := plantGrpc.PlantServer{
				Plant:            &plantCore,
				RateLimiterStore: plant.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
			}
			interceptor := plantGrpcServer.CreateRateLimitInterceptor([]string{
				plantGrpc.MethodRegister,
				plantGrpc.MethodGetCommand,
				plantGrpc.MethodAckCommand,
				plantGrpc.MethodPollReset,
			})
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			plantGrpc.RegisterDevicePollServer(s, &plantGrpcServer)
			logger.Info("gRPC server created with:",
				zap.String("default_limiter",
					fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

			listener, err := net.Listen("tcp", grpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			logger.Info("start gRPC server on " + grpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	rs := &plantHttp.RestfulServer{
		Server:           gin.Default(),
		Plant:            &plantCore,
		RateLimiterStore: plant.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
		JWTSecret:        []byte(os.Getenv(common.EnvKeyPlantJWTSecret)),
		UploadsDir:       uploadsDir,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)),
		zap.Bool("control_auth", len(rs.JWTSecret) > 0))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
