package grpc_control

import (
	"context"
	"net"
	"testing"
	"time"

	"price-quoter/src/logger"
	"price-quoter/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startHealth(t *testing.T) (*HealthService, healthpb.HealthClient) {
	t.Helper()
	svc := NewHealthService(&models.MConfig{Name: "price-quoter"}, logger.NewNop())
	lis := bufconn.Listen(1024 * 1024)
	go svc.Serve(lis)
	t.Cleanup(svc.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return svc, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("check %q: %v", service, err)
	}
	return resp.Status
}

func TestHealthFollowsSocketState(t *testing.T) {
	svc, client := startHealth(t)

	if got := check(t, client, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("initial status = %s", got)
	}

	svc.SetConnected(true)
	for _, name := range []string{"", "price-quoter"} {
		if got := check(t, client, name); got != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("%q status = %s after connect", name, got)
		}
	}

	svc.SetConnected(false)
	if got := check(t, client, "price-quoter"); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %s after drop", got)
	}
}
