package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

type GroceryHandler struct {
	Svc *service.GroceryService
}

type assignIn struct {
	SupplierID string `json:"supplier_id"`
}

func (h GroceryHandler) MountAPI(_, authed ez.EZ) {
	g := authed.Group("/groceries")

	ez.RegisterAction(g, ez.Action[pageQ, service.List[service.GroceryView]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, a domain.Actor, in *pageQ) (service.List[service.GroceryView], error) {
			return h.Svc.List(c.Request.Context(), a, in.ToPage())
		},
	})
	ez.RegisterAction(g, ez.Action[service.GroceryInput, service.GroceryView]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a domain.Actor, in *service.GroceryInput) (service.GroceryView, error) {
			return h.Svc.Create(c.Request.Context(), a, *in)
		},
	})
	ez.RegisterAction(g, ez.Action[none, service.GroceryView]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.GroceryView, error) {
			return h.Svc.Retrieve(c.Request.Context(), a, id(c))
		},
	})
	ez.RegisterAction(g, ez.Action[service.GroceryPatch, service.GroceryView]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, a domain.Actor, in *service.GroceryPatch) (service.GroceryView, error) {
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
			return Message{Message: "Grocery deactivated successfully"}, nil
		},
	})
	ez.RegisterAction(g, ez.Action[assignIn, Message]{
		Method: http.MethodPost,
		Path:   "/:id/assign_supplier",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, a domain.Actor, in *assignIn) (Message, error) {
			if err := h.Svc.AssignSupplier(c.Request.Context(), a, id(c), in.SupplierID); err != nil {
				return Message{}, err
			}
			return Message{Message: "Supplier assigned successfully"}, nil
		},
	})
}
