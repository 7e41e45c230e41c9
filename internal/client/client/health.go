package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthPinger checks the server's gRPC health endpoint.
type HealthPinger struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthPinger prepares a lazy connection; nothing is dialed until the
// first Ping.
func NewHealthPinger(addr string) (*HealthPinger, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &HealthPinger{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil only when the server reports SERVING.
func (p *HealthPinger) Ping(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (p *HealthPinger) Close() error {
	return p.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
