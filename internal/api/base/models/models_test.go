package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	last := NewPagination(3, 10, 25)
	assert.Equal(t, int64(3), last.TotalPages)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)

	first := NewPagination(1, 10, 25)
	assert.True(t, first.HasNextPage)
	assert.False(t, first.HasPrevPage)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNextPage)

	exact := NewPagination(2, 10, 20)
	assert.Equal(t, int64(2), exact.TotalPages)
	assert.False(t, exact.HasNextPage)
}

func TestPrincipalRoles(t *testing.T) {
	var nobody *Principal
	assert.False(t, nobody.IsAdminOrAbove())

	admin := &Principal{Role: RoleAdmin}
	assert.True(t, admin.IsAdminOrAbove())
	assert.False(t, admin.IsSuperAdmin())

	root := &Principal{Role: RoleSuperAdmin}
	assert.True(t, root.IsAdminOrAbove())
	assert.True(t, root.IsSuperAdmin())

	assert.False(t, (&Principal{Role: "viewer"}).IsAdminOrAbove())
}
