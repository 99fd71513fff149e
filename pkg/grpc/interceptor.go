package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
)

// CreateRateLimitInterceptor throttles the listed methods per device identifier.
func (s *PlantServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if r, ok := req.(interface{ GetValue() string }); ok {
				if !s.CheckDeviceLimiter(r.GetValue()) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
