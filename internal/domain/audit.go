package domain

import "time"

type AuditLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   string    `gorm:"size:36;index" json:"actor_id"`
	GroceryID string    `gorm:"size:36;index" json:"grocery_id"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Entity    string    `gorm:"size:50" json:"entity"`
	EntityID  string    `gorm:"size:36" json:"entity_id"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// Models AutoMigrate 需要建的全部表
func Models() []any {
	return []any{&User{}, &Grocery{}, &Item{}, &DailyIncome{}, &Relationship{}, &AuditLog{}}
}
