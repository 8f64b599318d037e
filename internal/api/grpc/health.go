package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"buurbak-availability/internal/api/grpc/interceptor"
	"buurbak-availability/internal/logger"
)

// ServiceName is the health-check name reported for the availability API.
const ServiceName = "buurbak.availability.v1.AvailabilityService"

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer mirrors database reachability into the standard gRPC health
// service.
type HealthServer struct {
	health *health.Server
	db     Pinger
}

func NewHealthServer(db Pinger) *HealthServer {
	return &HealthServer{health: health.NewServer(), db: db}
}

// Refresh pings the database once and publishes the result.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(ServiceName, st)
	return st
}

// Watch refreshes the status every interval until ctx is done.
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	h.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING for every service and ignores later updates.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
}

// NewServer builds the gRPC server carrying the health and reflection
// services.
func NewServer(h *HealthServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.Recovery(), interceptor.Logging()),
	)
	healthpb.RegisterHealthServer(s, h.health)

	// Register reflection service for grpcurl
	reflection.Register(s)
	return s
}
