package domain

import (
	"context"
	"errors"
	"time"
)

type RelType string

const (
	RelManages        RelType = "MANAGES"         // admin -> grocery
	RelResponsibleFor RelType = "RESPONSIBLE_FOR" // supplier -> grocery
	RelHasItem        RelType = "HAS_ITEM"        // grocery -> item
	RelHasIncome      RelType = "HAS_INCOME"      // grocery -> daily income
	RelAddedItem      RelType = "ADDED_ITEM"      // supplier -> item
	RelRecordedIncome RelType = "RECORDED_INCOME" // supplier -> daily income
)

// Cardinality 关系基数。OneTarget：一个起点最多一条出边；
// OneSource：一个终点最多一条入边。
type Cardinality struct {
	OneTarget bool
	OneSource bool
}

var cardinalities = map[RelType]Cardinality{
	RelManages:        {},
	RelResponsibleFor: {OneTarget: true, OneSource: true},
	RelHasItem:        {OneSource: true},
	RelHasIncome:      {OneSource: true},
	RelAddedItem:      {OneSource: true},
	RelRecordedIncome: {OneSource: true},
}

func (t RelType) Cardinality() Cardinality { return cardinalities[t] }

func (t RelType) Known() bool {
	_, ok := cardinalities[t]
	return ok
}

var (
	ErrCardinality = errors.New("relationship cardinality violated")
	ErrUnknownRel  = errors.New("unknown relationship type")
)

type Relationship struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Type      RelType   `gorm:"size:32;not null;index:idx_rel_from,priority:1;index:idx_rel_to,priority:1"`
	FromID    string    `gorm:"size:36;not null;index:idx_rel_from,priority:2"`
	ToID      string    `gorm:"size:36;not null;index:idx_rel_to,priority:2"`
	CreatedAt time.Time
}

func (Relationship) TableName() string { return "relationships" }

// GraphRepository 实体 id 之间的有向边。单值查询无边时返回 ""。
type GraphRepository interface {
	// Connect 已存在同一条边时不做任何事；违反基数返回 ErrCardinality
	Connect(ctx context.Context, t RelType, from, to string) error
	Disconnect(ctx context.Context, t RelType, from, to string) error
	// Repoint 先删掉与新边冲突的旧边，再连接
	Repoint(ctx context.Context, t RelType, from, to string) error
	Target(ctx context.Context, t RelType, from string) (string, error)
	Source(ctx context.Context, t RelType, to string) (string, error)
	Targets(ctx context.Context, t RelType, from string) ([]string, error)
	Sources(ctx context.Context, t RelType, to string) ([]string, error)
	// SourceMap 批量查 toIDs 各自的起点（OneSource 类型）
	SourceMap(ctx context.Context, t RelType, toIDs []string) (map[string]string, error)
}
