//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/brie-blaster/internal/api/grpc/monitor"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

var errStopWatching = errors.New("seen enough")

// staticSource serves one snapshot, then streams it again and ends.
type staticSource struct {
	snapshot panel.Snapshot
}

// Snapshot returns the stored snapshot.
func (s staticSource) Snapshot(context.Context) (panel.Snapshot, error) {
	return s.snapshot, nil
}

// Subscribe streams the stored snapshot twice.
func (s staticSource) Subscribe(context.Context) (<-chan panel.Snapshot, error) {
	updates := make(chan panel.Snapshot, 2)
	updates <- s.snapshot
	updates <- s.snapshot

	close(updates)

	return updates, nil
}

// newBufconnClient returns a Client talking to an in-memory kiosk.
func newBufconnClient(t *testing.T, source monitor.Service) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	monitor.RegisterPanelMonitorServer(server, monitor.NewServer(source))

	go func() {
		_ = server.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	client := &Client{
		conn:        conn,
		api:         monitor.NewPanelMonitorClient(conn),
		callTimeout: DefaultCallTimeout,
	}

	t.Cleanup(func() {
		_ = client.Close()

		server.Stop()
	})

	return client
}

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)

	c, err = Dial(context.Background(), "127.0.0.1:50551", WithCallTimeout(time.Second))
	require.NoError(t, err)
	require.Equal(t, time.Second, c.callTimeout)
	require.NoError(t, c.Close())
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_GetAndWatch reads snapshots from an in-memory kiosk.
func TestClient_GetAndWatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := newBufconnClient(t, staticSource{snapshot: panel.Snapshot{
		SessionID:      "visit-7",
		Stage:          panel.StageSettled,
		CurrentReading: 450,
		Outcome:        panel.OutcomeSettled,
	}})

	response, err := client.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "visit-7", response.GetFields()[monitor.FieldSessionID].GetStringValue())

	var received int

	err = client.Watch(ctx, func(*structpb.Struct) error {
		received++

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, received)

	err = client.Watch(ctx, func(*structpb.Struct) error { return errStopWatching })
	require.ErrorIs(t, err, errStopWatching)
}

// TestClose_NilClient tolerates a client that was never dialled.
func TestClose_NilClient(t *testing.T) {
	t.Parallel()

	var c *Client
	require.NoError(t, c.Close())
}
