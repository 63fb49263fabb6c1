package domain

import (
	"context"
	"time"
)

type Grocery struct {
	ID        string    `gorm:"primaryKey;size:36" json:"uid"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Location  string    `gorm:"size:200;not null" json:"location"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Grocery) TableName() string { return "groceries" }

type GroceryRepository interface {
	Create(ctx context.Context, g *Grocery) error
	// FindByID 不看 is_active；FindActive 只查启用的
	FindByID(ctx context.Context, id string) (*Grocery, error)
	FindActive(ctx context.Context, id string) (*Grocery, error)
	ListActive(ctx context.Context, p Page) ([]Grocery, int64, error)
	// ListByIDs 按 id 批量加载（含停用），返回 id -> Grocery
	ListByIDs(ctx context.Context, ids []string) (map[string]Grocery, error)
	// UpdateActive 只写仍启用的店铺；false 表示已停用或不存在
	UpdateActive(ctx context.Context, g *Grocery) (bool, error)
	// Deactivate 已停用时返回 false
	Deactivate(ctx context.Context, id string, at time.Time) (bool, error)
	Count(ctx context.Context) (int64, error)
}
