package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grocery-backend/internal/app"
	"grocery-backend/internal/core/config"
	"grocery-backend/internal/core/logger"
	"grocery-backend/internal/core/server"
	"grocery-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := logger.Build(logger.FromConfig(cfg.Log, "api"))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log, nil)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 路由（资源 API）
	r := router.NewAPIEngine(a.Router)
	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
		log,
	)
	log.Info("grocery api starting", zap.String("addr", srv.Addr), zap.String("api_v1", "/api/v1"))

	if err := server.Run(ctx, srv, log, time.Duration(cfg.App.ShutdownSec)*time.Second); err != nil {
		log.Error("grocery api stopped with error", zap.Error(err))
		return
	}
	log.Info("grocery api stopped gracefully")
}

