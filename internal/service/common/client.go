//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/brie-blaster/internal/api/grpc/monitor"
)

// DefaultCallTimeout bounds unary calls to the kiosk.
const DefaultCallTimeout = 5 * time.Second

// Client wraps the PanelMonitor gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the kiosk.
	conn *grpc.ClientConn
	// api is the PanelMonitor client.
	api monitor.PanelMonitorClient

	// callTimeout is the default timeout for unary calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial prepares a gRPC connection to the kiosk monitor API.
// Note: this uses insecure transport credentials; the monitor is meant for
// the local machine or a trusted booth network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial kiosk monitor: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         monitor.NewPanelMonitorClient(conn),
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetSnapshot retrieves the latest panel snapshot.
func (c *Client) GetSnapshot(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetSnapshot(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return resp, nil
}

// Watch streams snapshots into handle until the stream ends, ctx is
// cancelled or handle returns an error. A stream closed by the kiosk
// returns nil.
func (c *Client) Watch(ctx context.Context, handle func(*structpb.Struct) error) error {
	stream, err := c.api.WatchSnapshots(ctx, new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch snapshots: %w", err)
	}

	for {
		message, err := stream.Recv()

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("receive snapshot: %w", err)
		}

		if err := handle(message); err != nil {
			return err
		}
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
