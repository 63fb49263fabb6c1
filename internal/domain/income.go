package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type DailyIncome struct {
	ID        string          `gorm:"primaryKey;size:36" json:"uid"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (DailyIncome) TableName() string { return "daily_incomes" }

type IncomeFilter struct {
	GroceryID string
}

type IncomeRepository interface {
	Create(ctx context.Context, in *DailyIncome) error
	FindByID(ctx context.Context, id string) (*DailyIncome, error)
	List(ctx context.Context, f IncomeFilter, p Page) ([]DailyIncome, int64, error)
	Count(ctx context.Context, f IncomeFilter) (int64, error)
	SumAmount(ctx context.Context, f IncomeFilter) (decimal.Decimal, error)
	Save(ctx context.Context, in *DailyIncome) error
}
