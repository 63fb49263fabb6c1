package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTouchAlwaysAdvances(t *testing.T) {
	future := time.Now().Add(time.Hour)
	got := Touch(future)
	assert.True(t, got.After(future))

	past := time.Now().Add(-time.Hour)
	assert.True(t, Touch(past).After(past))
}

func TestRelationshipCardinality(t *testing.T) {
	assert.Equal(t, Cardinality{OneTarget: true, OneSource: true}, RelResponsibleFor.Cardinality())
	assert.Equal(t, Cardinality{OneSource: true}, RelHasItem.Cardinality())
	assert.Equal(t, Cardinality{}, RelManages.Cardinality())
	assert.False(t, RelType("LIKES").Known())
}

func TestActorGroceryID(t *testing.T) {
	assert.Equal(t, "", Actor{Role: RoleSupplier}.GroceryID())
	a := Actor{Role: RoleSupplier, Grocery: &Grocery{ID: "g1"}}
	assert.Equal(t, "g1", a.GroceryID())
	assert.True(t, a.IsSupplier())
	assert.False(t, a.IsAdmin())
}
