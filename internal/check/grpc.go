package check

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type grpcCheck struct {
	addr    string
	service string
}

// GRPCHealth returns a Checker that queries the gRPC health protocol at
// addr for the given service name ("" queries overall server health) and
// succeeds only on SERVING. The connection is plaintext and is closed
// after each attempt.
func GRPCHealth(addr, service string) Checker {
	return grpcCheck{addr: addr, service: service}
}

func (g grpcCheck) Check(ctx context.Context) error {
	conn, err := grpc.NewClient(g.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect %s: %w", g.addr, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: g.service})
	if err != nil {
		return fmt.Errorf("health check %s: %w", g.addr, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("health check %s: service %q is %s", g.addr, g.service, resp.GetStatus())
	}
	return nil
}
