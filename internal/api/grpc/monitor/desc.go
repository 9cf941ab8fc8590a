package monitor

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "brieblaster.monitor.v1.PanelMonitor"

// Full method names of the PanelMonitor service.
const (
	GetSnapshotMethod    = "/" + ServiceName + "/GetSnapshot"
	WatchSnapshotsMethod = "/" + ServiceName + "/WatchSnapshots"
)

// PanelMonitorServer is the server API of the PanelMonitor service.
type PanelMonitorServer interface {
	GetSnapshot(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	WatchSnapshots(req *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error
}

// ServiceDesc describes the PanelMonitor service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // grpc keeps a pointer to the descriptor.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PanelMonitorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSnapshot",
			Handler:    getSnapshotHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchSnapshots",
			Handler:       watchSnapshotsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "brieblaster/monitor/v1/monitor.proto",
}

// RegisterPanelMonitorServer registers srv on s.
func RegisterPanelMonitorServer(s grpc.ServiceRegistrar, srv PanelMonitorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getSnapshotHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, ok := srv.(PanelMonitorServer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errUnexpectedServer, srv)
	}

	if interceptor == nil {
		return server.GetSnapshot(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSnapshotMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		//nolint:forcetypeassert // grpc passes back the request decoded above.
		return server.GetSnapshot(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func watchSnapshotsHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, ok := srv.(PanelMonitorServer)
	if !ok {
		return fmt.Errorf("%w: %T", errUnexpectedServer, srv)
	}

	return server.WatchSnapshots(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

// PanelMonitorClient is the client API of the PanelMonitor service.
type PanelMonitorClient interface {
	GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	WatchSnapshots(
		ctx context.Context,
		in *emptypb.Empty,
		opts ...grpc.CallOption,
	) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type panelMonitorClient struct {
	cc grpc.ClientConnInterface
}

// NewPanelMonitorClient creates a client on cc.
func NewPanelMonitorClient(cc grpc.ClientConnInterface) PanelMonitorClient {
	return &panelMonitorClient{cc: cc}
}

// GetSnapshot calls the unary snapshot method.
func (c *panelMonitorClient) GetSnapshot(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSnapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// WatchSnapshots opens the snapshot stream.
func (c *panelMonitorClient) WatchSnapshots(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchSnapshotsMethod, opts...)
	if err != nil {
		return nil, err
	}

	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}
	if err := x.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}
