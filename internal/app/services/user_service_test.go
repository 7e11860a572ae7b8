package services

import (
	"testing"

	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFromPrincipalProvisionsOnce(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.db)

	principal := &models.Principal{ID: "connect-123", Email: "ana@example.com", Name: "Ana"}

	first, err := users.ResolveFromPrincipal(principal)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleUser, first.Role)
	assert.Equal(t, "ana@example.com", first.Email)

	second, err := users.ResolveFromPrincipal(principal)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveFromPrincipalKeepsExistingRole(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.db)
	admin := f.seedUser(t, models.UserRoleAdmin)

	resolved, err := users.ResolveFromPrincipal(&models.Principal{ID: admin.ConnectID, Email: admin.Email, Name: admin.DisplayName})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, resolved.Role)
}
