package repo

import (
	"context"

	"gorm.io/gorm"

	"grocery-backend/internal/domain"
)

// Store 基于 gorm 的 domain.Store 实现
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

var _ domain.Store = (*Store)(nil)

func (s *Store) Users() domain.UserRepository        { return &UserRepo{db: s.db} }
func (s *Store) Groceries() domain.GroceryRepository { return &GroceryRepo{db: s.db} }
func (s *Store) Items() domain.ItemRepository        { return &ItemRepo{db: s.db} }
func (s *Store) Incomes() domain.IncomeRepository    { return &IncomeRepo{db: s.db} }
func (s *Store) Graph() domain.GraphRepository       { return &GraphRepo{db: s.db} }

func (s *Store) Tx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// DB 暴露底层句柄（迁移、审计日志用）
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate 建表/补字段
func Migrate(db *gorm.DB) error { return db.AutoMigrate(domain.Models()...) }

func paginate(q *gorm.DB, p domain.Page) *gorm.DB {
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}

// ownedBy 把 q 限定为 owner 经 rel 边指向的 id
func ownedBy(db, q *gorm.DB, rel domain.RelType, owner string) *gorm.DB {
	sub := db.Model(&domain.Relationship{}).Select("to_id").Where("type = ? AND from_id = ?", rel, owner)
	return q.Where("id IN (?)", sub)
}
