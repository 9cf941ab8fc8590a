package monitor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/logger"
)

// Service abstracts the snapshot source the transport layer depends on.
type Service interface {
	// Snapshot returns the latest snapshot.
	Snapshot(ctx context.Context) (panel.Snapshot, error)
	// Subscribe returns a channel that first carries the latest snapshot and
	// then every later one. The channel is closed once ctx is done or the
	// source stops.
	Subscribe(ctx context.Context) (<-chan panel.Snapshot, error)
}

// ActorMetadataKey is the gRPC metadata key carrying the monitor's actor.
const ActorMetadataKey = "x-monitor-actor"

var _ PanelMonitorServer = (*Server)(nil)

// Server implements the PanelMonitor gRPC API.
type Server struct {
	// service provides the snapshots.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetSnapshot returns the latest panel snapshot.
func (s *Server) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		return nil, status.Error(codes.Unavailable, "snapshot is not available")
	}

	return ToStruct(snapshot), nil
}

// WatchSnapshots streams snapshots until the client leaves or the kiosk stops.
func (s *Server) WatchSnapshots(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	updates, err := s.service.Subscribe(ctx)
	if err != nil {
		return status.Error(codes.Unavailable, "snapshot stream is not available")
	}

	ctx = logger.WithKV(ctx, "actor", CallerActor(ctx))
	logger.Info(ctx, "Monitor subscribed")

	for snapshot := range updates {
		if err := stream.Send(ToStruct(snapshot)); err != nil {
			logger.DebugKV(ctx, "Monitor stream closed", "error", err)

			return err
		}
	}

	if ctx.Err() != nil {
		return status.FromContextError(ctx.Err()).Err()
	}

	return nil
}

// CallerActor returns the actor a monitor announced in its metadata, or "unknown".
func CallerActor(ctx context.Context) string {
	values := metadata.ValueFromIncomingContext(ctx, ActorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return "unknown"
	}

	return values[0]
}
