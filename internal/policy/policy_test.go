package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
)

var (
	admin      = domain.Actor{Role: domain.RoleAdmin}
	supplierA  = domain.Actor{Role: domain.RoleSupplier, Grocery: &domain.Grocery{ID: "A"}}
	unassigned = domain.Actor{Role: domain.RoleSupplier}
	stranger   = domain.Actor{Role: domain.Role("guest")}
)

func newPolicy(t *testing.T, opts Options) *Policy {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	return p
}

func TestUserAndGroceryMatrix(t *testing.T) {
	p := newPolicy(t, Options{})
	cases := []struct {
		name  string
		d     Decision
		allow bool
	}{
		{"admin lists users", p.CanListUsers(admin), true},
		{"supplier lists users", p.CanListUsers(supplierA), false},
		{"admin manages users", p.CanManageUsers(admin), true},
		{"supplier manages users", p.CanManageUsers(supplierA), false},
		{"supplier reads groceries", p.CanReadGrocery(unassigned), true},
		{"admin writes grocery", p.CanWriteGrocery(admin), true},
		{"supplier writes grocery", p.CanWriteGrocery(supplierA), false},
		{"unknown role reads", p.CanReadGrocery(stranger), false},
		{"supplier reads items", p.CanReadItem(unassigned), true},
		{"supplier uses console", p.CanUseConsole(supplierA), true},
		{"supplier stats", p.CanViewStats(supplierA), false},
		{"admin stats", p.CanViewStats(admin), true},
		{"admin audit", p.CanViewAudit(admin), true},
		{"supplier audit", p.CanViewAudit(supplierA), false},
		{"unassigned supplier lists incomes", p.CanListDailyIncome(unassigned), true},
		{"unknown role lists incomes", p.CanListDailyIncome(stranger), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allow, tc.d.Allowed())
		})
	}
}

func TestCanWriteItem(t *testing.T) {
	p := newPolicy(t, Options{})
	assert.True(t, p.CanWriteItem(admin, "B").Allowed())
	assert.True(t, p.CanWriteItem(supplierA, "A").Allowed())

	d := p.CanWriteItem(supplierA, "B")
	assert.Equal(t, DenyForbidden, d.Outcome)
	assert.True(t, apperr.Is(d.Err(), apperr.KindForbidden))

	d = p.CanWriteItem(unassigned, "")
	assert.Equal(t, DenyForbidden, d.Outcome)
	assert.Equal(t, msgNoGrocery, d.Reason)

	assert.False(t, p.CanWriteItem(unassigned, "A").Allowed())
}

func TestCanReadDailyIncome(t *testing.T) {
	p := newPolicy(t, Options{})
	assert.True(t, p.CanReadDailyIncome(admin, "B").Allowed())
	assert.True(t, p.CanReadDailyIncome(supplierA, "A").Allowed())
	assert.Equal(t, DenyForbidden, p.CanReadDailyIncome(supplierA, "B").Outcome)
	assert.Equal(t, DenyForbidden, p.CanReadDailyIncome(unassigned, "A").Outcome)

	hidden := newPolicy(t, Options{HideOutOfScopeIncomes: true})
	d := hidden.CanReadDailyIncome(supplierA, "B")
	assert.Equal(t, DenyNotFound, d.Outcome)
	assert.True(t, apperr.Is(d.Err(), apperr.KindNotFound))
}

func TestCanWriteDailyIncome(t *testing.T) {
	p := newPolicy(t, Options{})
	assert.True(t, p.CanWriteDailyIncome(admin).Allowed())
	assert.True(t, p.CanWriteDailyIncome(supplierA).Allowed())
	assert.False(t, p.CanWriteDailyIncome(unassigned).Allowed())
	assert.False(t, p.CanWriteDailyIncome(stranger).Allowed())

	assert.True(t, p.CanUpdateDailyIncome(supplierA, "A").Allowed())
	assert.False(t, p.CanUpdateDailyIncome(supplierA, "B").Allowed())
}

func TestCanViewGroceryDetail(t *testing.T) {
	p := newPolicy(t, Options{})
	assert.True(t, p.CanViewGroceryDetail(admin, "B").Allowed())
	assert.True(t, p.CanViewGroceryDetail(supplierA, "A").Allowed())
	assert.False(t, p.CanViewGroceryDetail(supplierA, "B").Allowed())
	assert.False(t, p.CanViewGroceryDetail(unassigned, "").Allowed())
}

func TestAllowErrIsNil(t *testing.T) {
	assert.NoError(t, allow().Err())
}
