package server

import (
	"context"
	"log/slog"
	"net"
	"synaptik/errors"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ChatService is the name probes ask for. The empty name reports the whole process.
const ChatService = "synaptik.Chat"

// OpsServer exposes the standard gRPC health service for orchestrators and load balancers.
// The serving status follows the store probe and flips to NOT_SERVING on shutdown.
type OpsServer struct {
	log      *slog.Logger
	server   *grpc.Server
	health   *health.Server
	ping     func(ctx context.Context) error
	interval time.Duration
}

func NewOpsServer(log *slog.Logger, ping func(ctx context.Context) error, interval time.Duration) *OpsServer {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)))
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	ops := &OpsServer{log: log, server: s, health: h, ping: ping, interval: interval}
	ops.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return ops
}

// Serve blocks until GracefulStop. A stopped server is not an error.
func (o *OpsServer) Serve(listener net.Listener) error {
	for name := range o.server.GetServiceInfo() {
		o.log.Debug("gRPC exposed service", "name", name)
	}
	if err := o.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Run probes the store until ctx is done. It is a supervised worker.
func (o *OpsServer) Run(ctx context.Context) error {
	o.probe(ctx)
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.probe(ctx)
		}
	}
}

func (o *OpsServer) probe(ctx context.Context) {
	if o.ping == nil {
		o.set(healthpb.HealthCheckResponse_SERVING)
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()
	if err := o.ping(pingCtx); err != nil {
		o.log.Warn("Store probe failed", "error", err)
		o.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	o.set(healthpb.HealthCheckResponse_SERVING)
}

func (o *OpsServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	o.health.SetServingStatus("", status)
	o.health.SetServingStatus(ChatService, status)
}

// GracefulStop reports NOT_SERVING to watchers, then drains in-flight calls.
func (o *OpsServer) GracefulStop() {
	o.health.Shutdown()
	o.server.GracefulStop()
}
