package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type refreshIn struct {
	Refresh string `json:"refresh" binding:"required"`
}

type profileOut struct {
	User service.UserView `json:"user"`
}

func (h AuthHandler) Priority() int { return 10 }

func (h AuthHandler) MountAPI(public, authed ez.EZ) {
	ez.RegisterAction(public, ez.Action[service.RegisterInput, service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register/admin",
		Binder: ez.BindJSON,
		Public: true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Actor, in *service.RegisterInput) (service.AuthResult, error) {
			return h.Svc.RegisterAdmin(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(public, ez.Action[service.LoginInput, service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Public: true,
		Handler: func(c *gin.Context, _ domain.Actor, in *service.LoginInput) (service.AuthResult, error) {
			return h.Svc.Login(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(public, ez.Action[refreshIn, auth.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Binder: ez.BindJSON,
		Public: true,
		Handler: func(c *gin.Context, _ domain.Actor, in *refreshIn) (auth.TokenPair, error) {
			return h.Svc.Refresh(c.Request.Context(), in.Refresh)
		},
	})

	ez.RegisterAction(authed, ez.Action[service.SupplierRegisterInput, service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register/supplier",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a domain.Actor, in *service.SupplierRegisterInput) (service.AuthResult, error) {
			return h.Svc.RegisterSupplier(c.Request.Context(), a, *in)
		},
	})
	ez.RegisterAction(authed, ez.Action[none, profileOut]{
		Method: http.MethodGet,
		Path:   "/auth/profile",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (profileOut, error) {
			return profileOut{User: h.Svc.Profile(c.Request.Context(), a)}, nil
		},
	})
}
