// Package app 两个入口共用的装配：数据库、缓存、策略、审计、服务、路由依赖。
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-backend/internal/audit"
	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/core/cache"
	"grocery-backend/internal/core/config"
	"grocery-backend/internal/core/database"
	"grocery-backend/internal/identity"
	"grocery-backend/internal/policy"
	"grocery-backend/internal/repo"
	"grocery-backend/internal/service"
	mdw "grocery-backend/internal/transport/http/middleware"
	"grocery-backend/internal/transport/http/router"
)

type App struct {
	DB       *gorm.DB
	Cache    *cache.Cache
	Audit    *audit.Dispatcher
	Services *service.Services
	Router   router.Deps
}

// Build 按配置装配；db 为 nil 时按 cfg.DB 打开
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, db *gorm.DB) (*App, error) {
	if db == nil {
		var err error
		db, err = database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Log:                log,
		})
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	}
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	// Redis 只缓存管理端统计；未启用时直接回源
	var c *cache.Cache
	if cfg.Redis.Enable {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable, stats cache disabled", zap.Error(err))
			_ = c.Close()
			c = nil
		}
	}

	pol, err := policy.New(policy.Options{HideOutOfScopeIncomes: cfg.Policy.HideOutOfScopeIncomes})
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        cfg.JWT.AccessTTL(),
		RefreshTTL: cfg.JWT.RefreshTTL(),
	}

	store := repo.NewStore(db)
	auditLog := audit.New(db)
	dispatcher := audit.NewDispatcher(auditLog, log, cfg.Audit.Buffer)

	svc := service.New(service.Deps{
		Store:    store,
		Policy:   pol,
		JWT:      jwter,
		Audit:    dispatcher,
		AuditLog: auditLog,
		Cache:    c,
		StatsTTL: cfg.Redis.StatsTTL(),
		Log:      log,
	})

	return &App{
		DB:       db,
		Cache:    c,
		Audit:    dispatcher,
		Services: svc,
		Router: router.Deps{
			Log:      log,
			JWT:      jwter,
			Resolver: identity.NewResolver(store),
			Modules:  router.Modules(svc),
			Health:   func(ctx context.Context) error { return database.Ping(ctx, db) },
			CORS:     cfg.App.CORSOrigins,
			Limits:   limits(cfg.App.Limits),
		},
	}, nil
}

func limits(l config.Limits) mdw.Limits {
	return mdw.Limits{
		RPS:        l.RPS,
		Burst:      l.Burst,
		PerIPRPS:   l.PerIPRPS,
		PerIPBurst: l.PerIPBurst,
		Inflight:   l.Inflight,
		QueueWait:  time.Duration(l.QueueWaitMS) * time.Millisecond,
		MaxBody:    l.MaxBodyKB << 10,
		Timeout:    time.Duration(l.TimeoutSec) * time.Second,
	}
}

// Close 先把审计队列写完，再关连接
func (a *App) Close() {
	a.Audit.Close()
	_ = a.Cache.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
