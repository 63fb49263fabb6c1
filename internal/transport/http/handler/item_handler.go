package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

type ItemHandler struct {
	Svc *service.ItemService
}

type itemListQ struct {
	ez.PageQuery
	GroceryID string `form:"grocery_id"`
}

func (h ItemHandler) MountAPI(_, authed ez.EZ) {
	g := authed.Group("/items")

	ez.RegisterAction(g, ez.Action[itemListQ, service.List[service.ItemView]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, a domain.Actor, in *itemListQ) (service.List[service.ItemView], error) {
			return h.Svc.List(c.Request.Context(), a, in.GroceryID, in.ToPage())
		},
	})
	ez.RegisterAction(g, ez.Action[service.ItemInput, service.ItemView]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a domain.Actor, in *service.ItemInput) (service.ItemView, error) {
			return h.Svc.Create(c.Request.Context(), a, *in)
		},
	})
	ez.RegisterAction(g, ez.Action[none, service.ItemView]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.ItemView, error) {
			return h.Svc.Retrieve(c.Request.Context(), a, id(c))
		},
	})
	ez.RegisterAction(g, ez.Action[service.ItemPatch, service.ItemView]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, a domain.Actor, in *service.ItemPatch) (service.ItemView, error) {
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
			return Message{Message: "Item deleted successfully"}, nil
		},
	})
}
