package domain

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleSupplier }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"uid"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Role         Role      `gorm:"column:user_type;size:16;not null;index" json:"user_type"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ErrDuplicate 唯一索引冲突（目前只有 email）
var ErrDuplicate = errors.New("duplicate key")

type UserChanges struct {
	Name      *string
	Email     *string
	IsActive  *bool
	UpdatedAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) (map[string]User, error)
	// List role 为空时返回全部用户
	List(ctx context.Context, role Role, p Page) ([]User, int64, error)
	// Update 只写 c 里非 nil 的列；email 冲突返回 ErrDuplicate
	Update(ctx context.Context, id string, c UserChanges) (bool, error)
	Count(ctx context.Context, role Role) (int64, error)
}
