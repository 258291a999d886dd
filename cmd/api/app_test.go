package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/grpcserver"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func newTestApp(httpPort, grpcPort int) *App {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            httpPort,
			Mode:            gin.TestMode,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		GRPC: config.GRPCConfig{Port: grpcPort},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newApp(cfg, log, gin.New(), grpcserver.NewHealthServer(okPinger{}, log))
}

// gRPC端口被占用时Run直接返回错误，HTTP端口随之释放
func TestRun_GRPCPortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()

	httpPort := freePort(t)
	app := newTestApp(httpPort, occupied.Addr().(*net.TCPAddr).Port)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gRPC")
	case <-time.After(3 * time.Second):
		t.Fatal("Run未在gRPC端口被占用时返回")
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", httpPort))
	require.NoError(t, err, "HTTP端口仍被占用")
	require.NoError(t, lis.Close())
}

func TestRun_ShutdownOnCancel(t *testing.T) {
	app := newTestApp(freePort(t), freePort(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	addr := app.cfg.Server.Addr()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", "127.0.0.1"+addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run未在ctx取消后退出")
	}
}
