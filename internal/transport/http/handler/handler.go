// Package handler 把 service 挂到 gin 路由上：入参绑定、路径参数、响应形态。
// 权限和范围判断全部在 service 里完成。
package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/transport/http/ez"
)

// Message 删除、停用、指派这类没有实体返回的动作
type Message struct {
	Message string `json:"message"`
}

type none = struct{}

func id(c *gin.Context) string { return c.Param("id") }

// parseDate 接受 YYYY-MM-DD 或 RFC3339
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Field(field, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
}

type pageQ = ez.PageQuery
