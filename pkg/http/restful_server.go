package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/auth"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/metrics"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
)

type RestfulServer struct {
	Server           *gin.Engine
	Plant            *plant.Plant
	RateLimiterStore *plant.RateLimiterStore
	JWTSecret        []byte
	UploadsDir       string
}

func (rs *RestfulServer) CheckDeviceLimiter(identifier string) bool {
	return rs.RateLimiterStore.Allow(identifier)
}

func (rs *RestfulServer) Setup() {
	metrics.Init()

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if rs.UploadsDir != "" {
		rs.Server.Static("/uploads", rs.UploadsDir)
	}

	plants := rs.Server.Group("/plants", auth.Middleware(rs.JWTSecret))
	{
		plants.GET("", rs.ListPlants)
		plants.POST("", rs.CreatePlant)
		plants.GET("/:id", rs.GetPlant)
		plants.PUT("/:id", rs.UpdatePlant)
		plants.DELETE("/:id", rs.DeletePlant)
		plants.POST("/:id/reset", rs.RequestReset)
		plants.POST("/:id/commands", rs.PostCommand)
		plants.POST("/:id/watering", rs.PostWatering)
		plants.POST("/:id/water", rs.PostWater)
		plants.GET("/:id/telemetry", rs.GetTelemetry)
	}

	devices := rs.Server.Group("/devices")
	{
		devices.POST("/register", rs.RegisterDevice)
		devices.GET("/:identifier/command", rs.GetCommand)
		devices.POST("/:identifier/command/ack", rs.AckCommand)
		devices.GET("/:identifier/reset", rs.PollReset)
	}
}

func StatusOf(err error) int {
	switch common.ErrorKind(err) {
	case "not_found":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "validation":
		return http.StatusBadRequest
	case "external":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestfulServer) writeError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": common.ErrorKind(err)})
}
