package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

type UserHandler struct {
	Svc *service.UserService
}

type userListQ struct {
	ez.PageQuery
	UserType string `form:"user_type"`
}

func (h UserHandler) MountAPI(_, authed ez.EZ) {
	g := authed.Group("/users")

	ez.RegisterAction(g, ez.Action[userListQ, service.List[service.UserView]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, a domain.Actor, in *userListQ) (service.List[service.UserView], error) {
			return h.Svc.List(c.Request.Context(), a, domain.Role(in.UserType), in.ToPage())
		},
	})
	ez.RegisterAction(g, ez.Action[none, service.UserView]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.UserView, error) {
			return h.Svc.Retrieve(c.Request.Context(), a, id(c))
		},
	})
	ez.RegisterAction(g, ez.Action[service.UserPatch, service.UserView]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, a domain.Actor, in *service.UserPatch) (service.UserView, error) {
			return h.Svc.Update(c.Request.Context(), a, id(c), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[none, Message]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (Message, error) {
			if err := h.Svc.Delete(c.Request.Context(), a, id(c)); err != nil {
				return Message{}, err
			}
			return Message{Message: "User deactivated successfully"}, nil
		},
	})
}
