package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/core/server"
	"grocery-backend/internal/transport/http/ez"
	mdw "grocery-backend/internal/transport/http/middleware"
	resp "grocery-backend/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Resolver ez.Resolver
	Modules  *Registry
	Health   func(ctx context.Context) error // 为 nil 时只回 ok
	CORS     []string
	Limits   mdw.Limits
}

// base 两个入口共用的中间件、健康检查和 /metrics
func base(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{AllowOrigins: d.CORS})
	r.Use(mdw.RequestID())
	r.Use(mdw.Guards(d.Limits)...)
	r.Use(mdw.Metrics(), mdw.AccessLog(d.Log))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "db unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
