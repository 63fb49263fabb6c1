package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grocery-backend/internal/domain"
)

// GraphRepo 用 relationships 表保存有类型的有向边
type GraphRepo struct{ db *gorm.DB }

func (r *GraphRepo) edges(ctx context.Context, t domain.RelType) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Relationship{}).Where("type = ?", t)
}

func (r *GraphRepo) Connect(ctx context.Context, t domain.RelType, from, to string) error {
	if !t.Known() {
		return domain.ErrUnknownRel
	}
	var n int64
	if err := r.edges(ctx, t).Where("from_id = ? AND to_id = ?", from, to).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	card := t.Cardinality()
	if card.OneTarget {
		if err := r.edges(ctx, t).Where("from_id = ?", from).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrCardinality
		}
	}
	if card.OneSource {
		if err := r.edges(ctx, t).Where("to_id = ?", to).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrCardinality
		}
	}
	return r.db.WithContext(ctx).Create(&domain.Relationship{Type: t, FromID: from, ToID: to}).Error
}

func (r *GraphRepo) Disconnect(ctx context.Context, t domain.RelType, from, to string) error {
	return r.db.WithContext(ctx).
		Where("type = ? AND from_id = ? AND to_id = ?", t, from, to).
		Delete(&domain.Relationship{}).Error
}

func (r *GraphRepo) Repoint(ctx context.Context, t domain.RelType, from, to string) error {
	if !t.Known() {
		return domain.ErrUnknownRel
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("type = ?", t)
		card := t.Cardinality()
		switch {
		case card.OneTarget && card.OneSource:
			q = q.Where("(from_id = ? OR to_id = ?)", from, to)
		case card.OneTarget:
			q = q.Where("from_id = ?", from)
		case card.OneSource:
			q = q.Where("to_id = ?", to)
		default:
			q = q.Where("from_id = ? AND to_id = ?", from, to)
		}
		var stale []domain.Relationship
		if err := q.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&stale).Error; err != nil {
			return err
		}
		if len(stale) == 1 && stale[0].FromID == from && stale[0].ToID == to {
			return nil
		}
		if len(stale) > 0 {
			ids := make([]uint64, 0, len(stale))
			for _, s := range stale {
				ids = append(ids, s.ID)
			}
			if err := tx.Delete(&domain.Relationship{}, ids).Error; err != nil {
				return err
			}
		}
		return tx.Create(&domain.Relationship{Type: t, FromID: from, ToID: to}).Error
	})
}

func (r *GraphRepo) Target(ctx context.Context, t domain.RelType, from string) (string, error) {
	ids, err := r.Targets(ctx, t, from)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *GraphRepo) Source(ctx context.Context, t domain.RelType, to string) (string, error) {
	ids, err := r.Sources(ctx, t, to)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *GraphRepo) Targets(ctx context.Context, t domain.RelType, from string) ([]string, error) {
	var ids []string
	err := r.edges(ctx, t).Where("from_id = ?", from).Order("id").Pluck("to_id", &ids).Error
	return ids, err
}

func (r *GraphRepo) Sources(ctx context.Context, t domain.RelType, to string) ([]string, error) {
	var ids []string
	err := r.edges(ctx, t).Where("to_id = ?", to).Order("id").Pluck("from_id", &ids).Error
	return ids, err
}

func (r *GraphRepo) SourceMap(ctx context.Context, t domain.RelType, toIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(toIDs))
	if len(toIDs) == 0 {
		return out, nil
	}
	var rels []domain.Relationship
	if err := r.edges(ctx, t).Where("to_id IN ?", toIDs).Order("id").Find(&rels).Error; err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if _, ok := out[rel.ToID]; !ok {
			out[rel.ToID] = rel.FromID
		}
	}
	return out, nil
}
