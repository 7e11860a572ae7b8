package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database visible to
	// every goroutine and serializes concurrent transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.Venue{},
		&models.Deal{},
		&models.Voucher{},
		&models.AuditLog{},
	))

	return db
}

type fixture struct {
	db       *gorm.DB
	audit    *AuditService
	deals    *DealService
	vouchers *VoucherService
	merch    *MerchantService
	venues   *VenueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	validator := infrastructures.NewValidator()
	audit := NewAuditService(db)
	t.Cleanup(audit.Close)
	mailer := &infrastructures.NoopMailer{}

	return &fixture{
		db:       db,
		audit:    audit,
		deals:    NewDealService(db, validator, audit, mailer),
		vouchers: NewVoucherService(db, validator, audit),
		merch:    NewMerchantService(db, validator, audit, mailer),
		venues:   NewVenueService(db, validator, &infrastructures.StubGeocoder{}, audit),
	}
}

func (f *fixture) seedUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		ConnectID:   uuid.NewString(),
		Email:       uuid.NewString()[:8] + "@example.com",
		DisplayName: "Test User",
		Role:        role,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedMerchant(t *testing.T, status models.MerchantStatus) (*models.Merchant, *models.User) {
	t.Helper()
	owner := f.seedUser(t, models.UserRoleMerchant)
	merchant := &models.Merchant{
		ID:          uuid.New(),
		OwnerUserID: owner.ID,
		Name:        "Golden Tap",
		Status:      status,
	}
	require.NoError(t, f.db.Create(merchant).Error)
	return merchant, owner
}

func (f *fixture) seedVenue(t *testing.T, merchant *models.Merchant) *models.Venue {
	t.Helper()
	venue := &models.Venue{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Name:       "Golden Tap Riverside",
		Address:    "12 River Road, Singapore",
	}
	require.NoError(t, f.db.Create(venue).Error)
	return venue
}

type dealOpts struct {
	status  models.DealStatus
	dtype   models.DealType
	startAt time.Time
	endAt   *time.Time
	maxRed  *int
}

func (f *fixture) seedDeal(t *testing.T, merchant *models.Merchant, venue *models.Venue, opts dealOpts) *models.Deal {
	t.Helper()

	if opts.status == "" {
		opts.status = models.DealStatusLive
	}
	if opts.dtype == "" {
		opts.dtype = models.DealTypeStandard
	}
	if opts.startAt.IsZero() {
		opts.startAt = time.Now().Add(-time.Hour)
	}
	if opts.endAt == nil {
		end := time.Now().Add(time.Hour)
		opts.endAt = &end
	}

	deal := &models.Deal{
		ID:             uuid.New(),
		VenueID:        venue.ID,
		MerchantID:     merchant.ID,
		Title:          "Half-price pints",
		PercentOff:     decimal.NewFromInt(50),
		Type:           opts.dtype,
		StartAt:        opts.startAt,
		EndAt:          opts.endAt,
		MaxRedemptions: opts.maxRed,
		Status:         opts.status,
	}
	require.NoError(t, f.db.Create(deal).Error)
	return deal
}

func intPtr(n int) *int { return &n }

func timePtr(ts time.Time) *time.Time { return &ts }
