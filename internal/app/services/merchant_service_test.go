package services

import (
	"testing"

	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUpgradesUserRole(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, models.UserRoleUser)

	merchant, err := f.merch.Register(user, &models.MerchantRegisterRequest{Name: "Golden Tap"})
	require.NoError(t, err)
	assert.Equal(t, models.MerchantStatusPending, merchant.Status)
	assert.Equal(t, user.ID, merchant.OwnerUserID)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserRoleMerchant, stored.Role)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, models.UserRoleUser)

	_, err := f.merch.Register(user, &models.MerchantRegisterRequest{Name: "Golden Tap"})
	require.NoError(t, err)

	_, err = f.merch.Register(user, &models.MerchantRegisterRequest{Name: "Second Tap"})
	requireAppError(t, err, 409, errors.CodeInvalidState)
}

func TestRegisterValidatesName(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, models.UserRoleUser)

	_, err := f.merch.Register(user, &models.MerchantRegisterRequest{})
	requireAppError(t, err, 400, errors.CodeValidationFailed)
}

func TestApproveMerchantOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusPending)

	approved, err := f.merch.Approve(merchant.ID.String(), admin)
	require.NoError(t, err)
	assert.Equal(t, models.MerchantStatusApproved, approved.Status)

	_, err = f.merch.Approve(merchant.ID.String(), admin)
	requireAppError(t, err, 409, errors.CodeInvalidState)
}

func TestRejectMerchantKeepsReason(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusPending)

	rejected, err := f.merch.Reject(merchant.ID.String(), admin, &models.MerchantRejectRequest{Reason: "missing license"})
	require.NoError(t, err)
	assert.Equal(t, models.MerchantStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "missing license", *rejected.RejectionReason)

	_, err = f.merch.Approve(merchant.ID.String(), admin)
	requireAppError(t, err, 409, errors.CodeInvalidState)
}

func TestGetByOwner(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusApproved)

	found, err := f.merch.GetByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, found.ID)

	stranger := f.seedUser(t, models.UserRoleUser)
	_, err = f.merch.GetByOwner(stranger.ID)
	requireAppError(t, err, 403, errors.CodeForbidden)
}
