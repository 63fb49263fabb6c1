package router

import (
	"sort"
	"sync"

	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
	"grocery-backend/internal/transport/http/handler"
)

// APIModule 模块可选择实现其中一个或两个接口
type APIModule interface{ MountAPI(public, authed ez.EZ) }
type AdminModule interface{ MountAdmin(admin ez.EZ) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

// Register 根据类型断言分发到 API/Admin 列表
func (r *Registry) Register(mods ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.apiMods = append(r.apiMods, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.adminMods = append(r.adminMods, m)
		}
	}
}

// MountAPI 在 /api/v1 上挂载所有已注册的 API 模块
func (r *Registry) MountAPI(public, authed ez.EZ) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(public, authed)
	}
}

// MountAdmin 在 /admin/v1 上挂载所有已注册的 Admin 模块
func (r *Registry) MountAdmin(admin ez.EZ) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}

// Modules 业务模块全集
func Modules(s *service.Services) *Registry {
	r := &Registry{}
	r.Register(
		handler.AuthHandler{Svc: s.Auth},
		handler.GroceryHandler{Svc: s.Groceries},
		handler.ItemHandler{Svc: s.Items},
		handler.IncomeHandler{Svc: s.Incomes},
		handler.UserHandler{Svc: s.Users},
		handler.ConsoleHandler{Svc: s.Console},
	)
	return r
}
