package domain

import (
	"context"
	"time"
)

// Page 偏移分页；Limit <= 0 表示不限
type Page struct {
	Offset int
	Limit  int
}

// Store 注入到每个 service 的存储句柄。Tx 在同一个事务里执行 fn。
type Store interface {
	Users() UserRepository
	Groceries() GroceryRepository
	Items() ItemRepository
	Incomes() IncomeRepository
	Graph() GraphRepository
	Tx(ctx context.Context, fn func(Store) error) error
}

// Touch 返回下一个 updated_at，保证严格晚于 prev（时钟没走也一样）
func Touch(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}
