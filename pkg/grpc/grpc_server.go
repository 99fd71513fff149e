package grpc

import (
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
)

type PlantServer struct {
	Plant            *plant.Plant
	RateLimiterStore *plant.RateLimiterStore
}

func (s *PlantServer) CheckDeviceLimiter(identifier string) bool {
	return s.RateLimiterStore.Allow(identifier)
}

var _ DevicePollServer = (*PlantServer)(nil)
