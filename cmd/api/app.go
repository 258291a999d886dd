package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/grpcserver"
)

// App 进程级容器：HTTP服务 + gRPC健康检查
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	engine *gin.Engine
	health *grpcserver.HealthServer
}

func newApp(cfg *config.Config, log *slog.Logger, engine *gin.Engine, health *grpcserver.HealthServer) *App {
	return &App{cfg: cfg, log: log, engine: engine, health: health}
}

// Run 启动服务并阻塞，直到ctx取消或任一服务异常退出
// ctx取消后在server.shutdown_timeout内优雅关闭
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	// 端口先全部监听成功再启动服务，避免gRPC端口被占用时HTTP服务残留
	httpLis, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("监听HTTP端口失败: %w", err)
	}
	var grpcLis net.Listener
	if a.cfg.GRPC.Port != 0 {
		grpcLis, err = net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPC.Port))
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		a.log.Info("HTTP服务启动", "addr", srv.Addr, "mode", a.cfg.Server.Mode)
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常退出: %w", err)
		}
	}()

	if grpcLis != nil {
		go func() {
			if err := a.health.Serve(ctx, grpcLis); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常退出: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("收到关闭信号，开始优雅关闭")
	case runErr = <-errCh:
		a.log.Error("服务异常，开始关闭", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if grpcLis != nil {
		a.health.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("HTTP服务关闭失败: %w", err))
	}

	a.log.Info("服务已安全关闭")
	return runErr
}
