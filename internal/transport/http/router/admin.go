package router

import (
	"github.com/gin-gonic/gin"

	"grocery-backend/internal/transport/http/ez"
	mdw "grocery-backend/internal/transport/http/middleware"
)

// NewAdminEngine 管理端；管理员和供应商都能登录，能看到什么由 policy 决定
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)

	admin := ez.New(r.Group("/admin/v1", mdw.AuthJWT(d.JWT)), d.Resolver)
	d.Modules.MountAdmin(admin)
	return r
}
