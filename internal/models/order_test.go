package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusAcceptsEnumValues(t *testing.T) {
	for _, raw := range []string{"Not Process", "Processing", "Done"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(raw), status)
	}
}

func TestParseOrderStatusRejectsEverythingElse(t *testing.T) {
	for _, raw := range []string{"Bogus", "", "done", "NOT PROCESS", "Shipped"} {
		_, err := ParseOrderStatus(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.False(t, RoleBuyer.IsAdmin())
	assert.True(t, RoleAdministrator.IsAdmin())
	assert.False(t, Role(2).IsAdmin())
}
