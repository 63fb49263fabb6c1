package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/identity"
	resp "grocery-backend/internal/transport/http/response"
)

// AuthJWT 只校验 access token 并把声明放进请求 context；
// 账号状态、角色、负责店铺由 identity.Resolver 每次请求重新读库
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "Authentication credentials were not provided.")
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "Given token not valid for any token type")
			return
		}
		ctx := identity.WithPrincipal(c.Request.Context(), identity.Principal{UID: claims.UID, Role: claims.Role})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
