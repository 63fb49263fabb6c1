package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
	resp "grocery-backend/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/groceries/:id/assign_supplier"
	Binder  Binder
	Public  bool // 不解析身份（登录、注册、刷新）
	Status  int  // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, a domain.Actor, in *I) (O, error)
}

// RegisterAction 在当前分组注册动作：解析身份 -> 绑定 -> 执行 -> 统一响应
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 身份：每次请求都重新读库
		var actor domain.Actor
		if !a.Public {
			var err error
			if actor, err = e.resolve.Resolve(c.Request.Context()); err != nil {
				Fail(c, err)
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, BindError(bindErr))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, actor, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
