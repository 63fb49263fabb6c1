package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/audit"
	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/core/cache"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/internal/service"
)

func TestConsoleStats(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")
	s := e.supplier("s@example.com", a.UID)
	_, err := e.item(s, a.UID, "Milk")
	require.NoError(t, err)
	_, err = e.income(s, "", "3")
	require.NoError(t, err)

	st, err := e.svc.Console.Stats(e.ctx, e.admin)
	require.NoError(t, err)
	assert.Equal(t, service.Stats{Admins: 1, Suppliers: 1, Groceries: 1, Items: 1, DailyIncomes: 1}, st)

	_, err = e.svc.Console.Stats(e.ctx, s)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestConsoleStatsCached(t *testing.T) {
	e := newEnv(t)
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	p, err := policy.New(policy.Options{})
	require.NoError(t, err)
	svc := service.New(service.Deps{
		Store:    e.store,
		Policy:   p,
		JWT:      &auth.JWTer{Secret: []byte("test")},
		Cache:    c,
		StatsTTL: time.Minute,
	})

	first, err := svc.Console.Stats(e.ctx, e.admin)
	require.NoError(t, err)
	e.grocery("A")
	second, err := svc.Console.Stats(e.ctx, e.admin)
	require.NoError(t, err)
	assert.Equal(t, first, second, "served from cache until ttl")

	mr.FastForward(2 * time.Minute)
	third, err := svc.Console.Stats(e.ctx, e.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, third.Groceries)
}

func TestConsoleStatsInvalidatedOnWrites(t *testing.T) {
	e := newEnv(t)
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	p, err := policy.New(policy.Options{})
	require.NoError(t, err)
	svc := service.New(service.Deps{Store: e.store, Policy: p, JWT: &auth.JWTer{Secret: []byte("test")}, Cache: c, StatsTTL: time.Hour})

	stats := func() service.Stats {
		st, err := svc.Console.Stats(e.ctx, e.admin)
		require.NoError(t, err)
		return st
	}
	assert.EqualValues(t, 0, stats().Groceries)

	g, err := svc.Groceries.Create(e.ctx, e.admin, service.GroceryInput{Name: "A", Location: "A street"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats().Groceries)

	it, err := svc.Items.Create(e.ctx, e.admin, service.ItemInput{GroceryID: g.UID, Name: "Milk", ItemType: "dairy", ItemLocation: "A1", Price: dec("1.00")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats().Items)

	require.NoError(t, svc.Items.Delete(e.ctx, e.admin, it.UID))
	assert.EqualValues(t, 0, stats().Items)
	_, err = svc.Items.Restore(e.ctx, e.admin, it.UID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats().Items)

	_, err = svc.Incomes.Create(e.ctx, e.admin, service.IncomeInput{GroceryID: g.UID, Date: ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), Amount: dec("5.00")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats().DailyIncomes)

	// Redis 挂掉时失效失败只记日志，写操作照常成功
	mr.Close()
	_, err = svc.Groceries.Create(e.ctx, e.admin, service.GroceryInput{Name: "B", Location: "B street"})
	require.NoError(t, err)
}

func TestConsoleItemChangelistIsScoped(t *testing.T) {
	e := newEnv(t)
	a, b := e.grocery("A"), e.grocery("B")
	s := e.supplier("s@example.com", a.UID)
	mine, err := e.item(s, a.UID, "Milk")
	require.NoError(t, err)
	theirs, err := e.item(e.admin, b.UID, "Bread")
	require.NoError(t, err)

	got, err := e.svc.Console.Changelist(e.ctx, s, service.KindItems, domain.Page{})
	require.NoError(t, err)
	list := got.(service.List[service.ItemView])
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.UID, list.Items[0].UID)

	_, err = e.svc.Console.Change(e.ctx, s, service.KindItems, theirs.UID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "out-of-scope rows look absent")
	v, err := e.svc.Console.Change(e.ctx, s, service.KindItems, mine.UID)
	require.NoError(t, err)
	assert.Equal(t, mine.UID, v.(service.ItemView).UID)

	all, err := e.svc.Console.Changelist(e.ctx, e.admin, service.KindItems, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, all.(service.List[service.ItemView]).Items, 2)

	_, err = e.svc.Console.Changelist(e.ctx, s, service.KindUsers, domain.Page{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = e.svc.Console.Changelist(e.ctx, e.admin, "orders", domain.Page{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestConsoleUnassignedSupplierSeesNothing(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")
	_, err := e.item(e.admin, a.UID, "Milk")
	require.NoError(t, err)
	s := e.supplier("s@example.com", "")

	got, err := e.svc.Console.Changelist(e.ctx, s, service.KindItems, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, got.(service.List[service.ItemView]).Items)
	got, err = e.svc.Console.Changelist(e.ctx, s, service.KindDailyIncome, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, got.(service.List[service.IncomeView]).Items)
}

func TestConsoleRestoreItem(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")
	it, err := e.item(e.admin, a.UID, "Milk")
	require.NoError(t, err)
	require.NoError(t, e.svc.Items.Delete(e.ctx, e.admin, it.UID))

	v, err := e.svc.Console.RestoreItem(e.ctx, e.admin, it.UID)
	require.NoError(t, err)
	assert.False(t, v.IsDeleted)
	assert.Contains(t, e.audit.actions(), "item.restore")
}

func TestConsoleAuditLogs(t *testing.T) {
	e := newEnv(t)
	logger := audit.New(e.store.DB())
	require.NoError(t, logger.Log(e.ctx, audit.Event{ActorID: e.admin.Self.ID, Action: "grocery.create", Entity: "grocery", EntityID: "g1"}))
	require.NoError(t, logger.Log(e.ctx, audit.Event{ActorID: e.admin.Self.ID, Action: "item.create", Entity: "item", EntityID: "i1"}))

	got, err := e.svc.Console.AuditLogs(e.ctx, e.admin, audit.Filter{Entity: "item"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "item.create", got.Items[0].Action)

	s := e.supplier("s@example.com", "")
	_, err = e.svc.Console.AuditLogs(e.ctx, s, audit.Filter{}, domain.Page{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}
