package kiosk

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/oshokin/brie-blaster/internal/api/grpc/monitor"
	"github.com/oshokin/brie-blaster/internal/logger"
)

// listenMonitor opens the TCP listener of the monitor API.
func listenMonitor(ctx context.Context, address string) (net.Listener, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	return lis, nil
}

// serveMonitor serves the monitor API on lis until ctx is cancelled.
func serveMonitor(ctx context.Context, lis net.Listener, source monitor.Service) error {
	ctx = logger.WithName(ctx, "monitor-server")

	grpcServer := grpc.NewServer()
	monitor.RegisterPanelMonitorServer(grpcServer, monitor.NewServer(source))

	logger.InfoKV(ctx, "Monitor listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down monitor server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Monitor server stopped")

	return nil
}
