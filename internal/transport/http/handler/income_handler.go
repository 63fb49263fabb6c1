package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
	"grocery-backend/internal/transport/http/ez"
)

type IncomeHandler struct {
	Svc *service.IncomeService
}

type incomeListQ struct {
	ez.PageQuery
	GroceryID string `form:"grocery_id"`
}

// date 以字符串接收，方便返回字段级的格式错误
type incomeBody struct {
	GroceryID string           `json:"grocery_id"`
	Date      string           `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
}

type incomePatchBody struct {
	GroceryID *string          `json:"grocery_id"`
	Date      *string          `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
}

func (b incomeBody) input() (service.IncomeInput, error) {
	d, err := parseDate("date", b.Date)
	if err != nil {
		return service.IncomeInput{}, err
	}
	return service.IncomeInput{GroceryID: b.GroceryID, Date: d, Amount: b.Amount}, nil
}

func (b incomePatchBody) patch() (service.IncomePatch, error) {
	p := service.IncomePatch{GroceryID: b.GroceryID, Amount: b.Amount}
	if b.Date != nil {
		d, err := parseDate("date", *b.Date)
		if err != nil {
			return p, err
		}
		p.Date = d
	}
	return p, nil
}

func (h IncomeHandler) MountAPI(_, authed ez.EZ) {
	g := authed.Group("/daily-income")

	ez.RegisterAction(g, ez.Action[incomeListQ, service.List[service.IncomeView]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, a domain.Actor, in *incomeListQ) (service.List[service.IncomeView], error) {
			return h.Svc.List(c.Request.Context(), a, in.GroceryID, in.ToPage())
		},
	})
	ez.RegisterAction(g, ez.Action[incomeBody, service.IncomeView]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a domain.Actor, in *incomeBody) (service.IncomeView, error) {
			input, err := in.input()
			if err != nil {
				return service.IncomeView{}, err
			}
			return h.Svc.Create(c.Request.Context(), a, input)
		},
	})
	ez.RegisterAction(g, ez.Action[none, service.IncomeView]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, a domain.Actor, _ *none) (service.IncomeView, error) {
			return h.Svc.Retrieve(c.Request.Context(), a, id(c))
		},
	})
	ez.RegisterAction(g, ez.Action[incomePatchBody, service.IncomeView]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, a domain.Actor, in *incomePatchBody) (service.IncomeView, error) {
			p, err := in.patch()
			if err != nil {
				return service.IncomeView{}, err
			}
			return h.Svc.Update(c.Request.Context(), a, id(c), p)
		},
	})
}
