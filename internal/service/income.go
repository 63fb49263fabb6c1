package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/internal/scope"
	"grocery-backend/pkg/utils"
)

type IncomeService struct {
	base
}

// IncomeInput 供应商提交的 grocery_id 会被忽略
type IncomeInput struct {
	GroceryID string           `json:"grocery_id"`
	Date      *time.Time       `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
}

type IncomePatch struct {
	GroceryID *string          `json:"grocery_id"`
	Date      *time.Time       `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
}

func (s *IncomeService) views(ctx context.Context, rows []domain.DailyIncome) ([]IncomeView, error) {
	ids := make([]string, len(rows))
	for i, in := range rows {
		ids[i] = in.ID
	}
	l, err := s.loadLineage(ctx, domain.RelHasIncome, domain.RelRecordedIncome, ids)
	if err != nil {
		return nil, err
	}
	out := make([]IncomeView, len(rows))
	for i, in := range rows {
		out[i] = incomeView(in, l)
	}
	return out, nil
}

func (s *IncomeService) view(ctx context.Context, in domain.DailyIncome) (IncomeView, error) {
	vs, err := s.views(ctx, []domain.DailyIncome{in})
	if err != nil {
		return IncomeView{}, err
	}
	return vs[0], nil
}

// List 管理员可按 groceryID 过滤；供应商只看本店，未分配店铺得到空列表
func (s *IncomeService) List(ctx context.Context, a domain.Actor, groceryID string, p domain.Page) (List[IncomeView], error) {
	empty := List[IncomeView]{Items: []IncomeView{}}
	if err := s.check(policy.ResIncome, s.policy.CanListDailyIncome(a)); err != nil {
		return empty, err
	}
	var f domain.IncomeFilter
	switch {
	case a.IsAdmin():
		if groceryID != "" {
			if _, err := s.activeGrocery(ctx, groceryID); err != nil {
				return empty, err
			}
		}
		f.GroceryID = groceryID
	case a.Grocery == nil:
		return empty, nil
	default:
		f.GroceryID = a.GroceryID()
	}
	rows, total, err := s.store.Incomes().List(ctx, f, p)
	if err != nil {
		return empty, apperr.Internal("list daily income", err)
	}
	views, err := s.views(ctx, rows)
	if err != nil {
		return empty, err
	}
	return List[IncomeView]{Items: scope.Collection(a, scope.KindDailyIncome, views), Total: total}, nil
}

func (s *IncomeService) load(ctx context.Context, id string) (*domain.DailyIncome, string, error) {
	in, err := s.store.Incomes().FindByID(ctx, id)
	if err != nil {
		return nil, "", apperr.Internal("load daily income", err)
	}
	if in == nil {
		return nil, "", apperr.NotFound("Income record not found")
	}
	gid, err := s.store.Graph().Source(ctx, domain.RelHasIncome, in.ID)
	if err != nil {
		return nil, "", apperr.Internal("load daily income grocery", err)
	}
	return in, gid, nil
}

func (s *IncomeService) Retrieve(ctx context.Context, a domain.Actor, id string) (IncomeView, error) {
	in, gid, err := s.load(ctx, id)
	if err != nil {
		return IncomeView{}, err
	}
	if err := s.check(policy.ResIncome, s.policy.CanReadDailyIncome(a, gid)); err != nil {
		return IncomeView{}, err
	}
	return s.view(ctx, *in)
}

func (s *IncomeService) Create(ctx context.Context, a domain.Actor, in IncomeInput) (IncomeView, error) {
	if err := s.check(policy.ResIncome, s.policy.CanWriteDailyIncome(a)); err != nil {
		return IncomeView{}, err
	}
	target := a.GroceryID()
	if a.IsAdmin() {
		if in.GroceryID == "" {
			return IncomeView{}, apperr.Field("grocery_id", "grocery_id is required for admins")
		}
		target = in.GroceryID
	}
	g, err := s.activeGrocery(ctx, target)
	if err != nil {
		return IncomeView{}, err
	}
	f := fields{}
	f.required("date", in.Date != nil)
	f.required("amount", in.Amount != nil)
	f.money("amount", in.Amount, domain.AmountDigits)
	if err := f.err(); err != nil {
		return IncomeView{}, err
	}

	now := domain.Touch(time.Time{})
	row := domain.DailyIncome{
		ID:        utils.NewID(),
		Date:      in.Date.UTC(),
		Amount:    *in.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Incomes().Create(ctx, &row); err != nil {
			return err
		}
		if err := tx.Graph().Repoint(ctx, domain.RelHasIncome, g.ID, row.ID); err != nil {
			return err
		}
		if a.IsSupplier() {
			return tx.Graph().Connect(ctx, domain.RelRecordedIncome, a.Self.ID, row.ID)
		}
		return nil
	})
	if err != nil {
		return IncomeView{}, apperr.Internal("create daily income", err)
	}
	s.statsChanged(ctx)
	s.record(a, "daily_income.create", "daily_income", row.ID, g.ID, map[string]string{"amount": row.Amount.String()})
	return s.view(ctx, row)
}

// Update 管理员传 grocery_id 时改挂店铺；供应商只能改本店记录，grocery_id 忽略
func (s *IncomeService) Update(ctx context.Context, a domain.Actor, id string, in IncomePatch) (IncomeView, error) {
	row, current, err := s.load(ctx, id)
	if err != nil {
		return IncomeView{}, err
	}
	if err := s.check(policy.ResIncome, s.policy.CanUpdateDailyIncome(a, current)); err != nil {
		return IncomeView{}, err
	}
	target := current
	if a.IsAdmin() && in.GroceryID != nil && *in.GroceryID != "" && *in.GroceryID != current {
		g, err := s.activeGrocery(ctx, *in.GroceryID)
		if err != nil {
			return IncomeView{}, err
		}
		target = g.ID
	}
	f := fields{}
	f.money("amount", in.Amount, domain.AmountDigits)
	if err := f.err(); err != nil {
		return IncomeView{}, err
	}

	if in.Date != nil {
		row.Date = in.Date.UTC()
	}
	if in.Amount != nil {
		row.Amount = *in.Amount
	}
	row.UpdatedAt = domain.Touch(row.UpdatedAt)
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Incomes().Save(ctx, row); err != nil {
			return err
		}
		if target != current {
			return tx.Graph().Repoint(ctx, domain.RelHasIncome, target, row.ID)
		}
		return nil
	})
	if err != nil {
		return IncomeView{}, apperr.Internal("update daily income", err)
	}
	s.record(a, "daily_income.update", "daily_income", row.ID, target, in)
	return s.view(ctx, *row)
}
