package services

import (
	"testing"
	"time"

	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDealRequiresApprovedMerchant(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusPending)
	venue := f.seedVenue(t, merchant)

	_, err := f.deals.CreateDeal(merchant, owner, &models.DealCreateRequest{
		VenueID:    venue.ID.String(),
		Title:      "Half-price pints",
		PercentOff: decimal.NewFromInt(50),
		StartAt:    time.Now(),
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestCreateDealValidation(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)

	base := func() models.DealCreateRequest {
		return models.DealCreateRequest{
			VenueID:    venue.ID.String(),
			Title:      "Half-price pints",
			PercentOff: decimal.NewFromInt(50),
			StartAt:    time.Now(),
		}
	}

	t.Run("percent off above 100", func(t *testing.T) {
		req := base()
		req.PercentOff = decimal.NewFromInt(101)
		_, err := f.deals.CreateDeal(merchant, owner, &req)
		requireAppError(t, err, 400, errors.CodeValidationFailed)
	})

	t.Run("percent off zero", func(t *testing.T) {
		req := base()
		req.PercentOff = decimal.Zero
		_, err := f.deals.CreateDeal(merchant, owner, &req)
		requireAppError(t, err, 400, errors.CodeValidationFailed)
	})

	t.Run("start after end", func(t *testing.T) {
		req := base()
		req.EndAt = timePtr(req.StartAt.Add(-time.Minute))
		_, err := f.deals.CreateDeal(merchant, owner, &req)
		requireAppError(t, err, 400, errors.CodeValidationFailed)
	})

	t.Run("foreign venue", func(t *testing.T) {
		other, _ := f.seedMerchant(t, models.MerchantStatusApproved)
		otherVenue := f.seedVenue(t, other)
		req := base()
		req.VenueID = otherVenue.ID.String()
		_, err := f.deals.CreateDeal(merchant, owner, &req)
		requireAppError(t, err, 403, errors.CodeForbidden)
	})

	t.Run("valid deal starts pending", func(t *testing.T) {
		req := base()
		deal, err := f.deals.CreateDeal(merchant, owner, &req)
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusPendingApproval, deal.Status)
		assert.Equal(t, 0, deal.RedeemedCount)
	})
}

func TestApproveDealTransitions(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)

	deal := f.seedDeal(t, merchant, venue, dealOpts{status: models.DealStatusPendingApproval})

	approved, err := f.deals.ApproveDeal(deal.ID.String(), admin)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusLive, approved.Status)

	// Approving a LIVE deal is an illegal transition and leaves state alone.
	_, err = f.deals.ApproveDeal(deal.ID.String(), admin)
	requireAppError(t, err, 409, errors.CodeInvalidState)

	var stored models.Deal
	require.NoError(t, f.db.First(&stored, "id = ?", deal.ID).Error)
	assert.Equal(t, models.DealStatusLive, stored.Status)
}

func TestRejectDealKeepsReason(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)
	deal := f.seedDeal(t, merchant, venue, dealOpts{status: models.DealStatusPendingApproval})

	rejected, err := f.deals.RejectDeal(deal.ID.String(), admin, &models.DealRejectRequest{Reason: "discount too steep"})
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "discount too steep", *rejected.RejectionReason)

	_, err = f.deals.ApproveDeal(deal.ID.String(), admin)
	requireAppError(t, err, 409, errors.CodeInvalidState)
}

func TestApproveMissingDeal(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)

	_, err := f.deals.ApproveDeal("5f9c2e71-b4c0-4b9e-a1ce-000000000000", admin)
	requireAppError(t, err, 404, errors.CodeNotFound)
}

func TestPauseResumeOwnership(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)
	deal := f.seedDeal(t, merchant, venue, dealOpts{})

	stranger, strangerOwner := f.seedMerchant(t, models.MerchantStatusApproved)

	_, err := f.deals.PauseDeal(deal.ID.String(), stranger, strangerOwner)
	requireAppError(t, err, 403, errors.CodeForbidden)

	paused, err := f.deals.PauseDeal(deal.ID.String(), merchant, owner)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusPaused, paused.Status)

	// Pausing a paused deal is an illegal transition.
	_, err = f.deals.PauseDeal(deal.ID.String(), merchant, owner)
	requireAppError(t, err, 409, errors.CodeInvalidState)

	resumed, err := f.deals.ResumeDeal(deal.ID.String(), merchant, owner)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusLive, resumed.Status)
}

func TestExtendDealMovesEndForward(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)

	end := time.Now().Add(time.Hour).Truncate(time.Second)
	deal := f.seedDeal(t, merchant, venue, dealOpts{endAt: &end})

	extended, err := f.deals.ExtendDeal(deal.ID.String(), merchant, owner, &models.DealExtendRequest{AddMinutes: 45})
	require.NoError(t, err)
	require.NotNil(t, extended.EndAt)
	assert.WithinDuration(t, end.Add(45*time.Minute), *extended.EndAt, time.Second)
}

func TestExtendDealWithoutEndUsesNow(t *testing.T) {
	f := newFixture(t)
	merchant, owner := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)

	deal := f.seedDeal(t, merchant, venue, dealOpts{})
	require.NoError(t, f.db.Model(&models.Deal{}).Where("id = ?", deal.ID).Update("end_at", nil).Error)

	before := time.Now()
	extended, err := f.deals.ExtendDeal(deal.ID.String(), merchant, owner, &models.DealExtendRequest{AddMinutes: 30})
	require.NoError(t, err)
	require.NotNil(t, extended.EndAt)
	assert.WithinDuration(t, before.Add(30*time.Minute), *extended.EndAt, 2*time.Second)
}

func TestExtendDealForeignMerchant(t *testing.T) {
	f := newFixture(t)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)
	deal := f.seedDeal(t, merchant, venue, dealOpts{})

	stranger, strangerOwner := f.seedMerchant(t, models.MerchantStatusApproved)
	_, err := f.deals.ExtendDeal(deal.ID.String(), stranger, strangerOwner, &models.DealExtendRequest{AddMinutes: 10})
	requireAppError(t, err, 403, errors.CodeForbidden)
}

func TestGetDealsFilters(t *testing.T) {
	f := newFixture(t)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)

	live := f.seedDeal(t, merchant, venue, dealOpts{})
	require.NoError(t, f.db.Exec(`UPDATE deals SET tags = ? WHERE id = ?`,
		`["beer","rooftop"]`, live.ID).Error)
	f.seedDeal(t, merchant, venue, dealOpts{status: models.DealStatusPaused})
	f.seedDeal(t, merchant, venue, dealOpts{status: models.DealStatusPendingApproval})

	liveStatus := models.DealStatusLive
	page, err := f.deals.GetDeals(&models.PaginationRequest{}, &liveStatus, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)

	page, err = f.deals.GetDeals(&models.PaginationRequest{}, nil, "beer")
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, live.ID, page.Items[0].ID)

	page, err = f.deals.GetDeals(&models.PaginationRequest{}, nil, "wine")
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)

	page, err = f.deals.GetDeals(&models.PaginationRequest{}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
}

func requireAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
}
