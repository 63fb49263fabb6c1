package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 金额列 decimal(12,2) / decimal(14,2)
const (
	PriceDigits  = 12
	AmountDigits = 14
	MoneyPlaces  = 2
)

type Item struct {
	ID           string          `gorm:"primaryKey;size:36" json:"uid"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	ItemType     string          `gorm:"size:50;not null" json:"item_type"`
	ItemLocation string          `gorm:"size:100;not null" json:"item_location"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsDeleted    bool            `gorm:"not null;index" json:"is_deleted"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ItemFilter 零值 = 所有未软删的商品
type ItemFilter struct {
	GroceryID string
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	// FindByID 跳过软删；FindAny 不跳过（恢复用）
	FindByID(ctx context.Context, id string) (*Item, error)
	FindAny(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, f ItemFilter, p Page) ([]Item, int64, error)
	Count(ctx context.Context, f ItemFilter) (int64, error)
	// FindForUpdate 同 FindByID，在事务里锁住该行
	FindForUpdate(ctx context.Context, id string) (*Item, error)
	// Update 只写未软删的行；false 表示行已不存在或已软删
	Update(ctx context.Context, it *Item) (bool, error)
	// SoftDelete Active -> Deleted；Restore Deleted -> Active。状态不符时返回 false
	SoftDelete(ctx context.Context, id string, at time.Time) (bool, error)
	Restore(ctx context.Context, id string, at time.Time) (bool, error)
}
