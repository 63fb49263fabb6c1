package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grocery-backend/internal/domain"
)

type ItemRepo struct{ db *gorm.DB }

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepo) find(ctx context.Context, q *gorm.DB) (*domain.Item, error) {
	var it domain.Item
	err := q.WithContext(ctx).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	return r.find(ctx, r.db.Where("id = ? AND is_deleted = ?", id, false))
}

func (r *ItemRepo) FindAny(ctx context.Context, id string) (*domain.Item, error) {
	return r.find(ctx, r.db.Where("id = ?", id))
}

func (r *ItemRepo) live(ctx context.Context, f domain.ItemFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Item{}).Where("is_deleted = ?", false)
	if f.GroceryID != "" {
		q = ownedBy(r.db, q, domain.RelHasItem, f.GroceryID)
	}
	return q.Session(&gorm.Session{})
}

func (r *ItemRepo) List(ctx context.Context, f domain.ItemFilter, p domain.Page) ([]domain.Item, int64, error) {
	q := r.live(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Item
	if err := paginate(q.Order("created_at DESC, id"), p).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ItemRepo) Count(ctx context.Context, f domain.ItemFilter) (int64, error) {
	var n int64
	err := r.live(ctx, f).Count(&n).Error
	return n, err
}

func (r *ItemRepo) FindForUpdate(ctx context.Context, id string) (*domain.Item, error) {
	return r.find(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ? AND is_deleted = ?", id, false))
}

// Update 条件写：行在读和写之间被软删时不生效
func (r *ItemRepo) Update(ctx context.Context, it *domain.Item) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ? AND is_deleted = ?", it.ID, false).
		Updates(map[string]any{
			"name":          it.Name,
			"item_type":     it.ItemType,
			"item_location": it.ItemLocation,
			"price":         it.Price,
			"updated_at":    it.UpdatedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *ItemRepo) setDeleted(ctx context.Context, id string, deleted bool, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ? AND is_deleted = ?", id, !deleted).
		Updates(map[string]any{"is_deleted": deleted, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *ItemRepo) SoftDelete(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.setDeleted(ctx, id, true, at)
}

func (r *ItemRepo) Restore(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.setDeleted(ctx, id, false, at)
}
