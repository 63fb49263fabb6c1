package ez

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	resp "grocery-backend/internal/transport/http/response"
)

// Resolver 把请求 context 里的 Principal 解析成 Actor（identity.Resolver）
type Resolver interface {
	Resolve(ctx context.Context) (domain.Actor, error)
}

// EZ 路由分组 + 身份解析
type EZ struct {
	g       *gin.RouterGroup
	resolve Resolver
}

func New(g *gin.RouterGroup, r Resolver) EZ { return EZ{g: g, resolve: r} }

// Group 子分组，可附加中间件
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), resolve: e.resolve}
}

// StatusOf apperr 分类对应的 HTTP 状态
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotAuthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Fail 统一错误出口；内部错误只记日志，不把原因返回给调用方
func Fail(c *gin.Context, err error) {
	code := StatusOf(apperr.KindOf(err))
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(code, resp.Error(resp.CodeServerError, ""))
		return
	}
	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}
	var data any
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		data = gin.H{"fields": fields}
	}
	c.AbortWithStatusJSON(code, resp.Fail(code, msg, data))
}
