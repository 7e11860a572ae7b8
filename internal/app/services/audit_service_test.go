package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndFlush(t *testing.T) {
	f := newFixture(t)

	recordID := uuid.New()
	actorID := uuid.New()
	f.audit.Record("deals", recordID, models.AuditActionStatusChange,
		map[string]interface{}{"status": "PENDING_APPROVAL"},
		map[string]interface{}{"status": "LIVE"},
		&actorID)
	f.audit.Flush()

	var entry models.AuditLog
	require.NoError(t, f.db.First(&entry, "record_id = ?", recordID).Error)
	assert.Equal(t, "deals", entry.TableName)
	assert.Equal(t, models.AuditActionStatusChange, entry.Action)
	require.NotNil(t, entry.OldData)
	assert.JSONEq(t, `{"status":"PENDING_APPROVAL"}`, *entry.OldData)
	require.NotNil(t, entry.NewData)
	assert.JSONEq(t, `{"status":"LIVE"}`, *entry.NewData)
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, actorID, *entry.ChangedBy)
}

func TestAuditNilSnapshots(t *testing.T) {
	f := newFixture(t)

	recordID := uuid.New()
	f.audit.Record("vouchers", recordID, models.AuditActionCreate, nil, map[string]interface{}{"code": "OHH-0A0B0C"}, nil)
	f.audit.Flush()

	var entry models.AuditLog
	require.NoError(t, f.db.First(&entry, "record_id = ?", recordID).Error)
	assert.Nil(t, entry.OldData)
	assert.Nil(t, entry.ChangedBy)
}

func TestAuditLogsPagination(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 15; i++ {
		f.audit.Record("deals", uuid.New(), models.AuditActionCreate, nil, map[string]interface{}{"n": i}, nil)
	}
	f.audit.Flush()

	page, err := f.audit.GetAuditLogs(&models.PaginationRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 15, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page2, err := f.audit.GetAuditLogs(&models.PaginationRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 5)
	assert.True(t, page2.HasPrev)
	assert.False(t, page2.HasNext)
}

func TestServiceMutationsAreAudited(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, models.UserRoleAdmin)
	merchant, _ := f.seedMerchant(t, models.MerchantStatusApproved)
	venue := f.seedVenue(t, merchant)
	deal := f.seedDeal(t, merchant, venue, dealOpts{status: models.DealStatusPendingApproval})

	_, err := f.deals.ApproveDeal(deal.ID.String(), admin)
	require.NoError(t, err)
	f.audit.Flush()

	var count int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).
		Where("table_name = ? AND record_id = ?", "deals", deal.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
