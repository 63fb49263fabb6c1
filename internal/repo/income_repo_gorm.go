package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-backend/internal/domain"
)

type IncomeRepo struct{ db *gorm.DB }

func (r *IncomeRepo) Create(ctx context.Context, in *domain.DailyIncome) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *IncomeRepo) FindByID(ctx context.Context, id string) (*domain.DailyIncome, error) {
	var in domain.DailyIncome
	err := r.db.WithContext(ctx).First(&in, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *IncomeRepo) filter(ctx context.Context, f domain.IncomeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.DailyIncome{})
	if f.GroceryID != "" {
		q = ownedBy(r.db, q, domain.RelHasIncome, f.GroceryID)
	}
	return q.Session(&gorm.Session{})
}

func (r *IncomeRepo) List(ctx context.Context, f domain.IncomeFilter, p domain.Page) ([]domain.DailyIncome, int64, error) {
	q := r.filter(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.DailyIncome
	if err := paginate(q.Order("date DESC, created_at DESC, id"), p).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *IncomeRepo) Count(ctx context.Context, f domain.IncomeFilter) (int64, error) {
	var n int64
	err := r.filter(ctx, f).Count(&n).Error
	return n, err
}

// SumAmount 在 Go 里累加，避免各驱动 SUM(decimal) 精度不一致
func (r *IncomeRepo) SumAmount(ctx context.Context, f domain.IncomeFilter) (decimal.Decimal, error) {
	var rows []domain.DailyIncome
	if err := r.filter(ctx, f).Select("amount").Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.Amount)
	}
	return sum, nil
}

func (r *IncomeRepo) Save(ctx context.Context, in *domain.DailyIncome) error {
	return r.db.WithContext(ctx).Save(in).Error
}
