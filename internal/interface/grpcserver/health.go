// Package grpcserver 提供gRPC健康检查服务（grpc.health.v1）
// 供Kubernetes探针和负载均衡器使用，状态跟随数据库连通性变化
package grpcserver

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 注册到健康检查的服务名
const ServiceName = "bookreview"

const (
	defaultInterval = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

// Pinger 依赖探测（*sql.DB实现了该接口）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer gRPC健康检查服务
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration
	log      *slog.Logger
}

// NewHealthServer 创建健康检查服务
func NewHealthServer(pinger Pinger, log *slog.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	// 首次探测之前保持NOT_SERVING
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server:   srv,
		health:   hs,
		pinger:   pinger,
		interval: defaultInterval,
		log:      log,
	}
}

// Check 探测一次依赖并更新状态
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.PingContext(ctx); err != nil {
		s.log.Warn("健康检查失败", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve 在lis上提供服务，直到Stop被调用
// ctx取消时停止后台探测
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.Check(ctx)
	go s.watch(ctx)

	s.log.Info("gRPC健康检查服务启动", "addr", lis.Addr().String())
	return s.server.Serve(lis)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Stop 标记下线并等待进行中的请求完成
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
