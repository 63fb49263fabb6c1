// Package service 资源服务：把 Store、Policy、scope 串成 list/get/create/update/delete。
// 调用方负责先用 identity.Resolver 解析出 Actor。
package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/audit"
	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/core/cache"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
)

var authzDecisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "authz_decisions_total", Help: "Authorization decisions by resource and outcome"},
	[]string{"resource", "outcome"},
)

func init() { prometheus.MustRegister(authzDecisions) }

// Auditor 审计事件出口（audit.Dispatcher）
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

type Deps struct {
	Store    domain.Store
	Policy   *policy.Policy
	JWT      *auth.JWTer
	Audit    Auditor
	AuditLog *audit.Logger // 管理端查询用，可为 nil
	Cache    *cache.Cache  // 可为 nil
	StatsTTL time.Duration
	Log      *zap.Logger
}

// Services 进程内全部资源服务
type Services struct {
	Auth      *AuthService
	Groceries *GroceryService
	Items     *ItemService
	Incomes   *IncomeService
	Users     *UserService
	Console   *ConsoleService
}

func New(d Deps) *Services {
	b := newBase(d)
	s := &Services{
		Auth:      &AuthService{base: b, jwt: d.JWT},
		Groceries: &GroceryService{base: b},
		Items:     &ItemService{base: b},
		Incomes:   &IncomeService{base: b},
		Users:     &UserService{base: b},
	}
	s.Console = &ConsoleService{
		base:      b,
		groceries: s.Groceries,
		items:     s.Items,
		incomes:   s.Incomes,
		users:     s.Users,
		auditLog:  d.AuditLog,
	}
	return s
}

type base struct {
	store  domain.Store
	policy *policy.Policy
	audit  Auditor
	log    *zap.Logger
	stats  cache.Entry[Stats]
}

const statsKey = "console:stats"

func newBase(d Deps) base {
	ttl := d.StatsTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	b := base{
		store:  d.Store,
		policy: d.Policy,
		audit:  d.Audit,
		log:    d.Log,
		stats:  cache.NewEntry[Stats](d.Cache, statsKey, ttl),
	}
	if b.audit == nil {
		b.audit = nopAuditor{}
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

// check 记录一次授权判断并转成 apperr
func (b base) check(resource string, d policy.Decision) error {
	authzDecisions.WithLabelValues(resource, d.Outcome.String()).Inc()
	return d.Err()
}

func (b base) record(a domain.Actor, action, entity, id, groceryID string, meta any) {
	b.audit.Dispatch(audit.Event{
		ActorID:   a.Self.ID,
		GroceryID: groceryID,
		Action:    action,
		Entity:    entity,
		EntityID:  id,
		Metadata:  meta,
	})
}

// statsChanged 节点数变化后让管理端统计回源；失败只记日志，最迟 TTL 后自愈
func (b base) statsChanged(ctx context.Context) {
	if err := b.stats.Invalidate(ctx); err != nil {
		b.log.Warn("invalidate console stats", zap.Error(err))
	}
}

// activeGrocery 目标店铺必须存在且启用
func (b base) activeGrocery(ctx context.Context, id string) (*domain.Grocery, error) {
	return activeGroceryIn(ctx, b.store, id)
}

// activeGroceryIn 事务内用 tx 的 store 查
func activeGroceryIn(ctx context.Context, store domain.Store, id string) (*domain.Grocery, error) {
	g, err := store.Groceries().FindActive(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load grocery", err)
	}
	if g == nil {
		return nil, apperr.NotFound("Grocery not found")
	}
	return g, nil
}

// lineage 一批商品/日收入的所属店铺和登记人
type lineage struct {
	groceryOf map[string]string // entity id -> grocery id
	groceries map[string]domain.Grocery
	byWhom    map[string]string // entity id -> supplier id
	users     map[string]domain.User
}

func (l lineage) grocery(id string) (string, *string) {
	gid := l.groceryOf[id]
	if g, ok := l.groceries[gid]; ok {
		name := g.Name
		return gid, &name
	}
	return gid, nil
}

func (l lineage) by(id string) *string {
	if u, ok := l.users[l.byWhom[id]]; ok {
		name := u.Name
		return &name
	}
	return nil
}

func (b base) loadLineage(ctx context.Context, owner, provenance domain.RelType, ids []string) (lineage, error) {
	var (
		l   lineage
		err error
	)
	graph := b.store.Graph()
	if l.groceryOf, err = graph.SourceMap(ctx, owner, ids); err != nil {
		return l, apperr.Internal("load owning groceries", err)
	}
	if l.byWhom, err = graph.SourceMap(ctx, provenance, ids); err != nil {
		return l, apperr.Internal("load provenance", err)
	}
	if l.groceries, err = b.store.Groceries().ListByIDs(ctx, values(l.groceryOf)); err != nil {
		return l, apperr.Internal("load groceries", err)
	}
	if l.users, err = b.store.Users().ListByIDs(ctx, values(l.byWhom)); err != nil {
		return l, apperr.Internal("load suppliers", err)
	}
	return l, nil
}

func values(m map[string]string) []string {
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, len(m))
	for _, v := range m {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// List 分页结果
type List[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
