package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"grocery-backend/internal/domain"
)

type GroceryRepo struct{ db *gorm.DB }

func (r *GroceryRepo) Create(ctx context.Context, g *domain.Grocery) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GroceryRepo) find(ctx context.Context, q *gorm.DB) (*domain.Grocery, error) {
	var g domain.Grocery
	err := q.WithContext(ctx).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroceryRepo) FindByID(ctx context.Context, id string) (*domain.Grocery, error) {
	return r.find(ctx, r.db.Where("id = ?", id))
}

func (r *GroceryRepo) FindActive(ctx context.Context, id string) (*domain.Grocery, error) {
	return r.find(ctx, r.db.Where("id = ? AND is_active = ?", id, true))
}

func (r *GroceryRepo) ListActive(ctx context.Context, p domain.Page) ([]domain.Grocery, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Grocery{}).Where("is_active = ?", true).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var gs []domain.Grocery
	if err := paginate(q.Order("created_at DESC, id"), p).Find(&gs).Error; err != nil {
		return nil, 0, err
	}
	return gs, total, nil
}

func (r *GroceryRepo) ListByIDs(ctx context.Context, ids []string) (map[string]domain.Grocery, error) {
	out := make(map[string]domain.Grocery, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var gs []domain.Grocery
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&gs).Error; err != nil {
		return nil, err
	}
	for _, g := range gs {
		out[g.ID] = g
	}
	return out, nil
}

func (r *GroceryRepo) UpdateActive(ctx context.Context, g *domain.Grocery) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Grocery{}).
		Where("id = ? AND is_active = ?", g.ID, true).
		Updates(map[string]any{
			"name":       g.Name,
			"location":   g.Location,
			"is_active":  g.IsActive,
			"updated_at": g.UpdatedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GroceryRepo) Deactivate(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Grocery{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *GroceryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Grocery{}).Count(&n).Error
	return n, err
}
