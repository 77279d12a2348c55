package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingBillingRecord() *CompanionBillingRecord {
	return &CompanionBillingRecord{
		ID:              "bill-test",
		MemberCode:      "VM-0450",
		CompanionsCount: 3,
		Items: []BillingItem{
			{Description: "Acceso de acompañante", Quantity: 3, UnitPrice: 100, Amount: 300},
			{Description: "Toallas adicionales", Quantity: 3, UnitPrice: 25, Amount: 75},
		},
		TotalAmount:    375,
		Status:         BillingPending,
		GateKeeperName: "Portería Norte",
		AccessTime:     time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestItemsTotal(t *testing.T) {
	rec := pendingBillingRecord()
	assert.Equal(t, int64(375), rec.ItemsTotal())
	assert.Equal(t, rec.ItemsTotal(), rec.TotalAmount)
}

func TestProcessBillingRecord(t *testing.T) {
	rec := pendingBillingRecord()
	now := time.Date(2024, time.January, 15, 18, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Process("staff@club", "cargo aplicado", now))

	assert.Equal(t, BillingProcessed, rec.Status)
	assert.Equal(t, "staff@club", rec.ProcessedBy)
	assert.Equal(t, "cargo aplicado", rec.Notes)
	require.NotNil(t, rec.ProcessedAt)
	assert.Equal(t, now, *rec.ProcessedAt)
}

func TestProcessTwiceFails(t *testing.T) {
	rec := pendingBillingRecord()
	now := time.Now()

	require.NoError(t, rec.Process("staff@club", "", now))
	assert.ErrorIs(t, rec.Process("staff@club", "", now), ErrAlreadyFinalized)
}

func TestCancelBillingRecord(t *testing.T) {
	rec := pendingBillingRecord()
	now := time.Now()

	assert.ErrorIs(t, rec.Cancel("staff@club", "  ", now), ErrMissingReason)

	require.NoError(t, rec.Cancel("staff@club", "registro duplicado", now))
	assert.Equal(t, BillingCancelled, rec.Status)
	assert.Equal(t, "registro duplicado", rec.CancelReason)

	// Either terminal outcome blocks further changes.
	assert.ErrorIs(t, rec.Process("staff@club", "", now), ErrAlreadyFinalized)
	assert.ErrorIs(t, rec.Cancel("staff@club", "otra vez", now), ErrAlreadyFinalized)
}

func TestComputeBillingStats(t *testing.T) {
	today := NewDate(2024, time.January, 15)
	todayAt := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)
	yesterdayAt := todayAt.AddDate(0, 0, -1)

	records := []CompanionBillingRecord{
		{Status: BillingPending, TotalAmount: 300},
		{Status: BillingPending, TotalAmount: 150},
		{Status: BillingProcessed, TotalAmount: 500, ProcessedAt: &todayAt},
		{Status: BillingProcessed, TotalAmount: 900, ProcessedAt: &yesterdayAt},
		{Status: BillingCancelled, TotalAmount: 50, ProcessedAt: &todayAt},
	}

	stats := ComputeBillingStats(records, today)

	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, int64(450), stats.PendingAmount)
	assert.Equal(t, 1, stats.ProcessedTodayCount)
	assert.Equal(t, int64(500), stats.BilledTodayAmount)
}
