package service

import (
	"context"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/audit"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/internal/scope"
)

// 管理端可浏览的实体
const (
	KindGroceries   = "groceries"
	KindItems       = "items"
	KindDailyIncome = "daily-income"
	KindUsers       = "users"
)

// ConsoleService 管理端 API：所有判断仍走 policy + scope
type ConsoleService struct {
	base
	groceries *GroceryService
	items     *ItemService
	incomes   *IncomeService
	users     *UserService
	auditLog  *audit.Logger
}

type Stats struct {
	Admins       int64 `json:"admins"`
	Suppliers    int64 `json:"suppliers"`
	Groceries    int64 `json:"groceries"`
	Items        int64 `json:"items"`
	DailyIncomes int64 `json:"daily_incomes"`
}

// Stats 节点计数；配置了 Redis 时缓存 TTL。
// 新增用户、店铺、日收入以及商品的新增、软删、恢复都会让缓存失效
func (s *ConsoleService) Stats(ctx context.Context, a domain.Actor) (Stats, error) {
	if err := s.check(policy.ResConsole, s.policy.CanViewStats(a)); err != nil {
		return Stats{}, err
	}
	st, err := s.stats.Get(ctx, s.countAll)
	if err != nil {
		return Stats{}, apperr.Internal("load stats", err)
	}
	return st, nil
}

func (s *ConsoleService) countAll(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Admins, err = s.store.Users().Count(ctx, domain.RoleAdmin); err != nil {
		return st, err
	}
	if st.Suppliers, err = s.store.Users().Count(ctx, domain.RoleSupplier); err != nil {
		return st, err
	}
	if st.Groceries, err = s.store.Groceries().Count(ctx); err != nil {
		return st, err
	}
	if st.Items, err = s.store.Items().Count(ctx, domain.ItemFilter{}); err != nil {
		return st, err
	}
	if st.DailyIncomes, err = s.store.Incomes().Count(ctx, domain.IncomeFilter{}); err != nil {
		return st, err
	}
	return st, nil
}

// Changelist 供应商只看到本店的商品和日收入
func (s *ConsoleService) Changelist(ctx context.Context, a domain.Actor, kind string, p domain.Page) (any, error) {
	if err := s.check(policy.ResConsole, s.policy.CanUseConsole(a)); err != nil {
		return nil, err
	}
	switch kind {
	case KindGroceries:
		return s.groceries.List(ctx, a, p)
	case KindItems:
		return s.itemChangelist(ctx, a, p)
	case KindDailyIncome:
		return s.incomes.List(ctx, a, "", p)
	case KindUsers:
		return s.users.List(ctx, a, "", p)
	}
	return nil, apperr.NotFound("Unknown section")
}

func (s *ConsoleService) itemChangelist(ctx context.Context, a domain.Actor, p domain.Page) (List[ItemView], error) {
	empty := List[ItemView]{Items: []ItemView{}}
	if a.IsSupplier() && a.Grocery == nil {
		return empty, nil
	}
	f := domain.ItemFilter{}
	if a.IsSupplier() {
		f.GroceryID = a.GroceryID()
	}
	if err := s.check(policy.ResItem, s.policy.CanReadItem(a)); err != nil {
		return empty, err
	}
	rows, total, err := s.store.Items().List(ctx, f, p)
	if err != nil {
		return empty, apperr.Internal("list items", err)
	}
	views, err := s.items.views(ctx, rows)
	if err != nil {
		return empty, err
	}
	return List[ItemView]{Items: scope.Collection(a, scope.KindItem, views), Total: total}, nil
}

// Change 单条记录；范围外的商品对供应商表现为不存在
func (s *ConsoleService) Change(ctx context.Context, a domain.Actor, kind, id string) (any, error) {
	if err := s.check(policy.ResConsole, s.policy.CanUseConsole(a)); err != nil {
		return nil, err
	}
	switch kind {
	case KindGroceries:
		return s.groceries.Retrieve(ctx, a, id)
	case KindItems:
		v, err := s.items.Retrieve(ctx, a, id)
		if err != nil {
			return nil, err
		}
		if len(scope.Collection(a, scope.KindItem, []ItemView{v})) == 0 {
			return nil, apperr.NotFound("Item not found")
		}
		return v, nil
	case KindDailyIncome:
		return s.incomes.Retrieve(ctx, a, id)
	case KindUsers:
		return s.users.Retrieve(ctx, a, id)
	}
	return nil, apperr.NotFound("Unknown section")
}

func (s *ConsoleService) RestoreItem(ctx context.Context, a domain.Actor, id string) (ItemView, error) {
	if err := s.check(policy.ResConsole, s.policy.CanUseConsole(a)); err != nil {
		return ItemView{}, err
	}
	return s.items.Restore(ctx, a, id)
}

// AuditLogs 仅管理员
func (s *ConsoleService) AuditLogs(ctx context.Context, a domain.Actor, f audit.Filter, p domain.Page) (List[domain.AuditLog], error) {
	if err := s.check(policy.ResConsole, s.policy.CanViewAudit(a)); err != nil {
		return List[domain.AuditLog]{}, err
	}
	if s.auditLog == nil {
		return List[domain.AuditLog]{Items: []domain.AuditLog{}}, nil
	}
	logs, total, err := s.auditLog.List(ctx, f, p)
	if err != nil {
		return List[domain.AuditLog]{}, apperr.Internal("list audit logs", err)
	}
	return List[domain.AuditLog]{Items: logs, Total: total}, nil
}
