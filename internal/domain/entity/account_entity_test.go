package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	a := NewCustomer("Ana", "ana@example.com", "hash")

	assert.Equal(t, RoleCustomer, a.Role)
	assert.Empty(t, a.ID)
	assert.True(t, a.CreatedAt.IsZero())
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleVendor, RoleCustomer} {
		assert.True(t, r.Valid(), r.String())
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Customer").Valid())
}
