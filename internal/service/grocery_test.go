package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/service"
)

func TestGroceryCreateOnlyAdmin(t *testing.T) {
	e := newEnv(t)
	g := e.grocery("A")
	assert.True(t, g.IsActive)

	managed, err := e.store.Graph().Targets(e.ctx, domain.RelManages, e.admin.Self.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{g.UID}, managed)

	s := e.supplier("s@example.com", g.UID)
	_, err = e.svc.Groceries.Create(e.ctx, s, service.GroceryInput{Name: "B", Location: "x"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = e.svc.Groceries.Create(e.ctx, e.admin, service.GroceryInput{Location: "x"})
	assert.Contains(t, apperr.FieldsOf(err), "name")
}

func TestGroceryDetailShapeIsOwnershipGated(t *testing.T) {
	e := newEnv(t)
	a, b := e.grocery("A"), e.grocery("B")
	s := e.supplier("s@example.com", a.UID)
	_, err := e.item(s, a.UID, "Milk")
	require.NoError(t, err)
	gone, err := e.item(s, a.UID, "Stale bread")
	require.NoError(t, err)
	require.NoError(t, e.svc.Items.Delete(e.ctx, s, gone.UID))
	_, err = e.income(s, "", "10.50")
	require.NoError(t, err)
	_, err = e.income(e.admin, a.UID, "4.50")
	require.NoError(t, err)

	own, err := e.svc.Groceries.Retrieve(e.ctx, s, a.UID)
	require.NoError(t, err)
	require.True(t, own.Detailed())
	assert.EqualValues(t, 1, *own.ItemsCount, "soft-deleted items are not counted")
	assert.Equal(t, "15", own.TotalIncome.String())
	require.NotNil(t, own.SupplierName)

	other, err := e.svc.Groceries.Retrieve(e.ctx, s, b.UID)
	require.NoError(t, err)
	assert.False(t, other.Detailed())
	assert.Nil(t, other.SupplierName)

	adminView, err := e.svc.Groceries.Retrieve(e.ctx, e.admin, b.UID)
	require.NoError(t, err)
	assert.True(t, adminView.Detailed())

	list, err := e.svc.Groceries.List(e.ctx, s, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	for _, g := range list.Items {
		assert.False(t, g.Detailed())
	}
}

func TestGroceryDeactivate(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")
	s := e.supplier("s@example.com", a.UID)

	require.NoError(t, e.svc.Groceries.Delete(e.ctx, e.admin, a.UID))
	_, err := e.svc.Groceries.Retrieve(e.ctx, e.admin, a.UID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	list, err := e.svc.Groceries.List(e.ctx, e.admin, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	// 停用不解除关系
	target, err := e.store.Graph().Target(e.ctx, domain.RelResponsibleFor, s.Self.ID)
	require.NoError(t, err)
	assert.Equal(t, a.UID, target)

	assert.NoError(t, e.svc.Groceries.Delete(e.ctx, e.admin, a.UID), "idempotent")
	err = e.svc.Groceries.Delete(e.ctx, e.admin, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	err = e.svc.Groceries.Delete(e.ctx, s, a.UID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestGroceryUpdate(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")

	up, err := e.svc.Groceries.Update(e.ctx, e.admin, a.UID, service.GroceryPatch{Location: ptr("Harbour road")})
	require.NoError(t, err)
	assert.Equal(t, "A", up.Name)
	assert.Equal(t, "Harbour road", up.Location)
	assert.True(t, up.UpdatedAt.After(a.UpdatedAt))

	_, err = e.svc.Groceries.Update(e.ctx, e.admin, "missing", service.GroceryPatch{Name: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAssignSupplierRepoints(t *testing.T) {
	e := newEnv(t)
	a, b := e.grocery("A"), e.grocery("B")
	s := e.supplier("s@example.com", a.UID)

	require.NoError(t, e.svc.Groceries.AssignSupplier(e.ctx, e.admin, b.UID, s.Self.ID))

	oldSup, err := e.store.Graph().Source(e.ctx, domain.RelResponsibleFor, a.UID)
	require.NoError(t, err)
	assert.Empty(t, oldSup)
	newSup, err := e.store.Graph().Source(e.ctx, domain.RelResponsibleFor, b.UID)
	require.NoError(t, err)
	assert.Equal(t, s.Self.ID, newSup)
	assert.Equal(t, b.UID, e.actor(s.Self.ID).GroceryID(), "resolver sees the change on the next request")

	// 另一个供应商接手 B 后，s 变为未分配
	t2 := e.supplier("t@example.com", "")
	require.NoError(t, e.svc.Groceries.AssignSupplier(e.ctx, e.admin, b.UID, t2.Self.ID))
	assert.Nil(t, e.actor(s.Self.ID).Grocery)
}

func TestAssignSupplierErrors(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")
	s := e.supplier("s@example.com", "")

	err := e.svc.Groceries.AssignSupplier(e.ctx, e.admin, a.UID, "")
	assert.Contains(t, apperr.FieldsOf(err), "supplier_id")
	err = e.svc.Groceries.AssignSupplier(e.ctx, e.admin, a.UID, e.admin.Self.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "admins cannot be assigned")
	err = e.svc.Groceries.AssignSupplier(e.ctx, s, a.UID, s.Self.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, e.svc.Users.Delete(e.ctx, e.admin, s.Self.ID))
	err = e.svc.Groceries.AssignSupplier(e.ctx, e.admin, a.UID, s.Self.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "inactive supplier")
}

func TestGroceryUpdateLosesToConcurrentDeactivate(t *testing.T) {
	e := newEnv(t)
	a := e.grocery("A")

	e.afterRead(onTable("groceries"), "UPDATE groceries SET is_active = ? WHERE id = ?", false, a.UID)
	_, err := e.svc.Groceries.Update(e.ctx, e.admin, a.UID, service.GroceryPatch{Name: ptr("A2")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	stored, err := e.store.Groceries().FindByID(e.ctx, a.UID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive, "deactivation must win")
	assert.Equal(t, "A", stored.Name)
}
