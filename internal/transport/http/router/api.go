package router

import (
	"github.com/gin-gonic/gin"

	"grocery-backend/internal/transport/http/ez"
	mdw "grocery-backend/internal/transport/http/middleware"
)

func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	// 前缀
	api := r.Group("/api/v1")
	public := ez.New(api, d.Resolver)

	// 鉴权分组：只校验 token，身份和权限在 action 里解析
	authed := public.Group("", mdw.AuthJWT(d.JWT))

	d.Modules.MountAPI(public, authed)
	return r
}
