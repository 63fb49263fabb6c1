package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/audit"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

// ConsoleHandler 管理端：统计、各实体的列表/详情、商品恢复、审计日志
type ConsoleHandler struct {
	Svc *service.ConsoleService
}

type auditQ struct {
	ez.PageQuery
	Action    string `form:"action"`
	Entity    string `form:"entity"`
	GroceryID string `form:"grocery_id"`
}

var consoleKinds = []string{service.KindGroceries, service.KindItems, service.KindDailyIncome, service.KindUsers}

func (h ConsoleHandler) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[none, service.Stats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.Stats, error) {
			return h.Svc.Stats(c.Request.Context(), a)
		},
	})
	ez.RegisterAction(e, ez.Action[auditQ, service.List[domain.AuditLog]]{
		Method: http.MethodGet,
		Path:   "/audit-logs",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, a domain.Actor, in *auditQ) (service.List[domain.AuditLog], error) {
			f := audit.Filter{Action: in.Action, Entity: in.Entity, GroceryID: in.GroceryID}
			return h.Svc.AuditLogs(c.Request.Context(), a, f, in.ToPage())
		},
	})

	for _, kind := range consoleKinds {
		kind := kind
		ez.RegisterAction(e, ez.Action[pageQ, any]{
			Method: http.MethodGet,
			Path:   "/" + kind,
			Binder: ez.BindQuery,
			Handler: func(c *gin.Context, a domain.Actor, in *pageQ) (any, error) {
				return h.Svc.Changelist(c.Request.Context(), a, kind, in.ToPage())
			},
		})
		ez.RegisterAction(e, ez.Action[none, any]{
			Method: http.MethodGet,
			Path:   "/" + kind + "/:id",
			Binder: ez.BindNone,
			Handler: func(c *gin.Context, a domain.Actor, _ *none) (any, error) {
				return h.Svc.Change(c.Request.Context(), a, kind, id(c))
			},
		})
	}

	ez.RegisterAction(e, ez.Action[none, service.ItemView]{
		Method: http.MethodPost,
		Path:   "/items/:id/restore",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.ItemView, error) {
			return h.Svc.RestoreItem(c.Request.Context(), a, id(c))
		},
	})
}
