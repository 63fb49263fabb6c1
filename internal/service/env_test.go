package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"grocery-backend/internal/audit"
	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/identity"
	"grocery-backend/internal/policy"
	"grocery-backend/internal/repo"
	"grocery-backend/internal/repo/repotest"
	"grocery-backend/internal/service"
	"grocery-backend/pkg/utils"
)

func init() { utils.PasswordCost = bcrypt.MinCost }

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Action
	}
	return out
}

type env struct {
	t        *testing.T
	ctx      context.Context
	store    *repo.Store
	svc      *service.Services
	resolver *identity.Resolver
	audit    *recorder
	admin    domain.Actor
}

func newEnv(t *testing.T, opts ...policy.Options) *env {
	t.Helper()
	var o policy.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	p, err := policy.New(o)
	require.NoError(t, err)
	store := repotest.NewStore(t)
	rec := &recorder{}
	e := &env{
		t:        t,
		ctx:      context.Background(),
		store:    store,
		resolver: identity.NewResolver(store),
		audit:    rec,
		svc: service.New(service.Deps{
			Store:    store,
			Policy:   p,
			JWT:      &auth.JWTer{Secret: []byte("test"), Issuer: "grocery-test", TTL: time.Minute, RefreshTTL: time.Hour},
			Audit:    rec,
			AuditLog: audit.New(store.DB()),
		}),
	}
	res, err := e.svc.Auth.RegisterAdmin(e.ctx, service.RegisterInput{Name: "Root", Email: "root@example.com", Password: "password123"})
	require.NoError(t, err)
	e.admin = e.actor(res.User.UID)
	return e
}

// actor 走一遍真实的身份解析（每次都读库）
func (e *env) actor(uid string) domain.Actor {
	e.t.Helper()
	u, err := e.store.Users().FindByID(e.ctx, uid)
	require.NoError(e.t, err)
	require.NotNil(e.t, u)
	a, err := e.resolver.Resolve(identity.WithPrincipal(e.ctx, identity.Principal{UID: u.ID, Role: string(u.Role)}))
	require.NoError(e.t, err)
	return a
}

func (e *env) grocery(name string) service.GroceryView {
	e.t.Helper()
	g, err := e.svc.Groceries.Create(e.ctx, e.admin, service.GroceryInput{Name: name, Location: name + " street"})
	require.NoError(e.t, err)
	return g
}

func (e *env) supplier(email, groceryID string) domain.Actor {
	e.t.Helper()
	res, err := e.svc.Auth.RegisterSupplier(e.ctx, e.admin, service.SupplierRegisterInput{
		RegisterInput: service.RegisterInput{Name: "Sup " + email, Email: email, Password: "password123"},
		GroceryID:     groceryID,
	})
	require.NoError(e.t, err)
	return e.actor(res.User.UID)
}

func (e *env) item(a domain.Actor, groceryID, name string) (service.ItemView, error) {
	return e.svc.Items.Create(e.ctx, a, service.ItemInput{
		GroceryID: groceryID, Name: name, ItemType: "food", ItemLocation: "aisle 1", Price: dec("1.99"),
	})
}

func (e *env) income(a domain.Actor, groceryID, amount string) (service.IncomeView, error) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return e.svc.Incomes.Create(e.ctx, a, service.IncomeInput{GroceryID: groceryID, Date: &day, Amount: dec(amount)})
}

// afterRead 下一次命中 match 的查询返回之后，在同一连接上执行一次 sql，
// 用来模拟两个请求交错：读完、写回之前别人已经改了这一行
func (e *env) afterRead(match func(*gorm.DB) bool, sql string, args ...any) {
	e.t.Helper()
	db := e.store.DB()
	fired := false
	name := "test:after_read:" + e.t.Name()
	require.NoError(e.t, db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if fired || !match(tx) {
			return
		}
		fired = true
		// 直接走 tx 当前的连接：事务内也不会卡住单连接的内存库
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, sql, args...)
		require.NoError(e.t, err)
	}))
	e.t.Cleanup(func() { _ = db.Callback().Query().Remove(name) })
}

func onTable(table string) func(*gorm.DB) bool {
	return func(tx *gorm.DB) bool { return tx.Statement.Table == table }
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T { return &v }
