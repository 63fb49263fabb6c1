package service

import (
	"context"
	"time"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/pkg/utils"
)

type GroceryService struct {
	base
}

type GroceryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=200"`
	IsActive *bool  `json:"is_active"`
}

type GroceryPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Location *string `json:"location" validate:"omitempty,min=1,max=200"`
	IsActive *bool   `json:"is_active"`
}

// List 所有角色都拿到启用店铺的基础形态
func (s *GroceryService) List(ctx context.Context, a domain.Actor, p domain.Page) (List[GroceryView], error) {
	if err := s.check(policy.ResGrocery, s.policy.CanReadGrocery(a)); err != nil {
		return List[GroceryView]{}, err
	}
	gs, total, err := s.store.Groceries().ListActive(ctx, p)
	if err != nil {
		return List[GroceryView]{}, apperr.Internal("list groceries", err)
	}
	views, err := s.basic(ctx, gs)
	if err != nil {
		return List[GroceryView]{}, err
	}
	return List[GroceryView]{Items: views, Total: total}, nil
}

func (s *GroceryService) basic(ctx context.Context, gs []domain.Grocery) ([]GroceryView, error) {
	ids := make([]string, len(gs))
	for i, g := range gs {
		ids[i] = g.ID
	}
	supplierOf, err := s.store.Graph().SourceMap(ctx, domain.RelResponsibleFor, ids)
	if err != nil {
		return nil, apperr.Internal("load suppliers", err)
	}
	users, err := s.store.Users().ListByIDs(ctx, values(supplierOf))
	if err != nil {
		return nil, apperr.Internal("load suppliers", err)
	}
	out := make([]GroceryView, len(gs))
	for i, g := range gs {
		var sup *domain.User
		if u, ok := users[supplierOf[g.ID]]; ok {
			sup = &u
		}
		out[i] = groceryView(g, sup)
	}
	return out, nil
}

func (s *GroceryService) view(ctx context.Context, g domain.Grocery) (GroceryView, error) {
	views, err := s.basic(ctx, []domain.Grocery{g})
	if err != nil {
		return GroceryView{}, err
	}
	return views[0], nil
}

// Retrieve 管理员或该店负责的供应商拿到详情（商品数、收入合计），其余拿基础形态
func (s *GroceryService) Retrieve(ctx context.Context, a domain.Actor, id string) (GroceryView, error) {
	if err := s.check(policy.ResGrocery, s.policy.CanReadGrocery(a)); err != nil {
		return GroceryView{}, err
	}
	g, err := s.activeGrocery(ctx, id)
	if err != nil {
		return GroceryView{}, err
	}
	v, err := s.view(ctx, *g)
	if err != nil {
		return GroceryView{}, err
	}
	if !s.policy.CanViewGroceryDetail(a, g.ID).Allowed() {
		return v, nil
	}
	count, err := s.store.Items().Count(ctx, domain.ItemFilter{GroceryID: g.ID})
	if err != nil {
		return GroceryView{}, apperr.Internal("count items", err)
	}
	total, err := s.store.Incomes().SumAmount(ctx, domain.IncomeFilter{GroceryID: g.ID})
	if err != nil {
		return GroceryView{}, apperr.Internal("sum income", err)
	}
	v.ItemsCount = &count
	v.TotalIncome = &total
	return v, nil
}

func (s *GroceryService) Create(ctx context.Context, a domain.Actor, in GroceryInput) (GroceryView, error) {
	if err := s.check(policy.ResGrocery, s.policy.CanWriteGrocery(a)); err != nil {
		return GroceryView{}, err
	}
	f := fields{}
	f.tags(in)
	if err := f.err(); err != nil {
		return GroceryView{}, err
	}
	now := domain.Touch(time.Time{})
	g := domain.Grocery{
		ID:        utils.NewID(),
		Name:      in.Name,
		Location:  in.Location,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Groceries().Create(ctx, &g); err != nil {
			return err
		}
		return tx.Graph().Connect(ctx, domain.RelManages, a.Self.ID, g.ID)
	})
	if err != nil {
		return GroceryView{}, apperr.Internal("create grocery", err)
	}
	s.statsChanged(ctx)
	s.record(a, "grocery.create", "grocery", g.ID, g.ID, map[string]string{"name": g.Name})
	return groceryView(g, nil), nil
}

func (s *GroceryService) Update(ctx context.Context, a domain.Actor, id string, in GroceryPatch) (GroceryView, error) {
	if err := s.check(policy.ResGrocery, s.policy.CanWriteGrocery(a)); err != nil {
		return GroceryView{}, err
	}
	g, err := s.activeGrocery(ctx, id)
	if err != nil {
		return GroceryView{}, err
	}
	f := fields{}
	f.tags(in)
	if err := f.err(); err != nil {
		return GroceryView{}, err
	}
	if in.Name != nil {
		g.Name = *in.Name
	}
	if in.Location != nil {
		g.Location = *in.Location
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	g.UpdatedAt = domain.Touch(g.UpdatedAt)
	// 只改仍启用的店铺，期间被停用的按 404 处理
	ok, err := s.store.Groceries().UpdateActive(ctx, g)
	if err != nil {
		return GroceryView{}, apperr.Internal("update grocery", err)
	}
	if !ok {
		return GroceryView{}, apperr.NotFound("Grocery not found")
	}
	s.record(a, "grocery.update", "grocery", g.ID, g.ID, in)
	return s.view(ctx, *g)
}

// Delete 只停用，不解除关系；对已停用的店铺重复调用无副作用
func (s *GroceryService) Delete(ctx context.Context, a domain.Actor, id string) error {
	if err := s.check(policy.ResGrocery, s.policy.CanWriteGrocery(a)); err != nil {
		return err
	}
	g, err := s.store.Groceries().FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("load grocery", err)
	}
	if g == nil {
		return apperr.NotFound("Grocery not found")
	}
	if !g.IsActive {
		return nil
	}
	ok, err := s.store.Groceries().Deactivate(ctx, g.ID, domain.Touch(g.UpdatedAt))
	if err != nil {
		return apperr.Internal("deactivate grocery", err)
	}
	if !ok {
		return nil
	}
	s.record(a, "grocery.deactivate", "grocery", g.ID, g.ID, nil)
	return nil
}

// AssignSupplier 供应商改派到该店：旧店铺的关系和该店原来的供应商都会被摘掉
func (s *GroceryService) AssignSupplier(ctx context.Context, a domain.Actor, id, supplierID string) error {
	if err := s.check(policy.ResGrocery, s.policy.CanWriteGrocery(a)); err != nil {
		return err
	}
	if supplierID == "" {
		return apperr.Field("supplier_id", "supplier_id is required")
	}
	g, err := s.store.Groceries().FindActive(ctx, id)
	if err != nil {
		return apperr.Internal("load grocery", err)
	}
	sup, err := s.store.Users().FindByID(ctx, supplierID)
	if err != nil {
		return apperr.Internal("load supplier", err)
	}
	if g == nil || sup == nil || sup.Role != domain.RoleSupplier || !sup.IsActive {
		return apperr.NotFound("Grocery or Supplier not found")
	}
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		return tx.Graph().Repoint(ctx, domain.RelResponsibleFor, sup.ID, g.ID)
	})
	if err != nil {
		return apperr.Internal("assign supplier", err)
	}
	s.record(a, "grocery.assign_supplier", "grocery", g.ID, g.ID, map[string]string{"supplier_id": sup.ID})
	return nil
}
