package grpc_control

import (
	"fmt"
	"net"

	"price-quoter/src/logger"
	"price-quoter/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService reports over grpc.health.v1 whether the pricing socket is
// usable. The overall status ("") and the named service move together.
type HealthService struct {
	Config *models.MConfig
	Logger *logger.Logger

	server *grpc.Server
	health *health.Server
}

// NewHealthService creates the service in NOT_SERVING state.
func NewHealthService(cfg *models.MConfig, log *logger.Logger) *HealthService {
	hs := health.NewServer()
	s := &HealthService{
		Config: cfg,
		Logger: log,
		server: grpc.NewServer(),
		health: hs,
	}
	healthpb.RegisterHealthServer(s.server, hs)
	s.SetConnected(false)
	return s
}

// -----------------------------------------------------------------------------

func (s *HealthService) serviceName() string {
	return s.Config.Name
}

// SetConnected updates the serving status. Its signature matches the
// transport state listener.
func (s *HealthService) SetConnected(connected bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if connected {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName(), status)
	s.Logger.Debug("Health status set to %s", status)
}

// -----------------------------------------------------------------------------

// Start listens on the configured gRPC address and serves until Stop.
func (s *HealthService) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.Logger.Info("Starting gRPC health server on %s", addr)
	return s.Serve(lis)
}

// Serve serves on an existing listener.
func (s *HealthService) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *HealthService) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
