package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/identity"
	"grocery-backend/internal/service"
)

func TestUsersAreAdminOnly(t *testing.T) {
	e := newEnv(t)
	s := e.supplier("s@example.com", "")

	_, err := e.svc.Users.List(e.ctx, s, "", domain.Page{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = e.svc.Users.Retrieve(e.ctx, s, s.Self.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = e.svc.Users.Update(e.ctx, s, s.Self.ID, service.UserPatch{Name: ptr("me")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	all, err := e.svc.Users.List(e.ctx, e.admin, "", domain.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
	suppliers, err := e.svc.Users.List(e.ctx, e.admin, domain.RoleSupplier, domain.Page{})
	require.NoError(t, err)
	require.Len(t, suppliers.Items, 1)
	assert.Equal(t, domain.RoleSupplier, suppliers.Items[0].UserType)

	_, err = e.svc.Users.List(e.ctx, e.admin, domain.Role("owner"), domain.Page{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUserUpdate(t *testing.T) {
	e := newEnv(t)
	s := e.supplier("s@example.com", "")

	up, err := e.svc.Users.Update(e.ctx, e.admin, s.Self.ID, service.UserPatch{Name: ptr("Sam"), Email: ptr("SAM@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Sam", up.Name)
	assert.Equal(t, "sam@example.com", up.Email)
	assert.True(t, up.UpdatedAt.After(s.Self.UpdatedAt))

	_, err = e.svc.Users.Update(e.ctx, e.admin, s.Self.ID, service.UserPatch{Email: ptr("root@example.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, apperr.FieldsOf(err), "email")

	_, err = e.svc.Users.Update(e.ctx, e.admin, s.Self.ID, service.UserPatch{Email: ptr("not-an-email")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = e.svc.Users.Retrieve(e.ctx, e.admin, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserDeactivationTakesEffectImmediately(t *testing.T) {
	e := newEnv(t)
	s := e.supplier("s@example.com", "")
	principal := identity.WithPrincipal(e.ctx, identity.Principal{UID: s.Self.ID, Role: string(domain.RoleSupplier)})

	require.NoError(t, e.svc.Users.Delete(e.ctx, e.admin, s.Self.ID))

	_, err := e.resolver.Resolve(principal)
	assert.True(t, apperr.Is(err, apperr.KindNotAuthenticated))
	stored, err := e.store.Users().FindByID(e.ctx, s.Self.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "never hard-deleted")
	assert.False(t, stored.IsActive)
	assert.Contains(t, e.audit.actions(), "user.deactivate")
}

// 邮箱检查通过之后、写入之前被别人占用：唯一索引兜底，返回 409 而不是 500
func TestUserEmailTakenConcurrently(t *testing.T) {
	e := newEnv(t)
	s := e.supplier("s@example.com", "")
	byEmail := func(tx *gorm.DB) bool {
		return tx.Statement.Table == "users" && strings.Contains(tx.Statement.SQL.String(), "email")
	}
	now := time.Now().UTC()
	insert := "INSERT INTO users (id, name, email, password_hash, user_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	e.afterRead(byEmail, insert, "u-race-1", "Racer", "race@example.com", "x", "supplier", true, now, now)
	_, err := e.svc.Users.Update(e.ctx, e.admin, s.Self.ID, service.UserPatch{Email: ptr("race@example.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	assert.Contains(t, apperr.FieldsOf(err), "email")
	stored, err := e.store.Users().FindByID(e.ctx, s.Self.ID)
	require.NoError(t, err)
	assert.Equal(t, "s@example.com", stored.Email)
}

func TestRegisterEmailTakenConcurrently(t *testing.T) {
	e := newEnv(t)
	now := time.Now().UTC()
	insert := "INSERT INTO users (id, name, email, password_hash, user_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	e.afterRead(onTable("users"), insert, "u-race-2", "Racer", "new@example.com", "x", "admin", true, now, now)

	_, err := e.svc.Auth.RegisterSupplier(e.ctx, e.admin, service.SupplierRegisterInput{
		RegisterInput: service.RegisterInput{Name: "New", Email: "new@example.com", Password: "password123"},
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	assert.Contains(t, apperr.FieldsOf(err), "email")
}
