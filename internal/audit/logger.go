package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"grocery-backend/internal/domain"
)

// Logger 把审计事件写入 audit_logs
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var meta string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = string(b)
		}
	}
	row := domain.AuditLog{
		ActorID:   ev.ActorID,
		GroceryID: ev.GroceryID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  meta,
	}
	return l.db.WithContext(ctx).Create(&row).Error
}

type Filter struct {
	Action    string
	Entity    string
	GroceryID string
}

// List 管理端查看审计记录，按时间倒序
func (l *Logger) List(ctx context.Context, f Filter, p domain.Page) ([]domain.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&domain.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.GroceryID != "" {
		q = q.Where("grocery_id = ?", f.GroceryID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []domain.AuditLog
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
