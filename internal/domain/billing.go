package domain

import (
	"strings"
	"time"
)

type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingProcessed BillingStatus = "processed"
	BillingCancelled BillingStatus = "cancelled"
)

func ParseBillingStatus(s string) (BillingStatus, bool) {
	switch BillingStatus(s) {
	case BillingPending, BillingProcessed, BillingCancelled:
		return BillingStatus(s), true
	default:
		return "", false
	}
}

// BillingItem is one line of a companion charge.
type BillingItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Amount      int64  `json:"amount"`
}

// CompanionBillingRecord is an ad-hoc charge raised at the gate when a
// member brings paying companions. It stays pending until billing staff
// process or cancel it; both outcomes are terminal.
type CompanionBillingRecord struct {
	ID              string        `json:"id"`
	MemberCode      string        `json:"memberCode"`
	CompanionsCount int           `json:"companionsCount"`
	Items           []BillingItem `json:"billingItems"`
	TotalAmount     int64         `json:"totalAmount"`
	Status          BillingStatus `json:"status"`
	GateKeeperName  string        `json:"gateKeeperName"`
	AccessTime      time.Time     `json:"accessTime"`
	ProcessedBy     string        `json:"processedBy,omitempty"`
	ProcessedAt     *time.Time    `json:"processedAt,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CancelledBy     string        `json:"cancelledBy,omitempty"`
	CancelReason    string        `json:"cancelReason,omitempty"`
}

// ItemsTotal sums the line amounts. TotalAmount must always equal this.
func (r *CompanionBillingRecord) ItemsTotal() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Amount
	}
	return total
}

func (r *CompanionBillingRecord) IsFinalized() bool {
	return r.Status != BillingPending
}

// Process finalizes the record as billed. Guards against double-processing
// the same gate event: anything but pending fails.
func (r *CompanionBillingRecord) Process(processedBy, notes string, now time.Time) error {
	if r.IsFinalized() {
		return ErrAlreadyFinalized
	}
	r.Status = BillingProcessed
	r.ProcessedBy = processedBy
	r.Notes = notes
	t := now
	r.ProcessedAt = &t
	return nil
}

// Cancel voids a pending record. The reason is mandatory.
func (r *CompanionBillingRecord) Cancel(cancelledBy, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	if r.IsFinalized() {
		return ErrAlreadyFinalized
	}
	r.Status = BillingCancelled
	r.CancelledBy = cancelledBy
	r.CancelReason = reason
	t := now
	r.ProcessedAt = &t
	return nil
}

// BillingStats are read-only aggregates over the record set. They are
// recomputed from the records on every call, never maintained as
// counters that could drift.
type BillingStats struct {
	PendingCount        int   `json:"pendingCount"`
	PendingAmount       int64 `json:"pendingAmount"`
	ProcessedTodayCount int   `json:"processedTodayCount"`
	BilledTodayAmount   int64 `json:"billedTodayAmount"`
}

// ComputeBillingStats folds the record set into the dashboard numbers.
// "Today" is the caller's civil date so the fold stays pure.
func ComputeBillingStats(records []CompanionBillingRecord, today Date) BillingStats {
	var stats BillingStats
	for i := range records {
		r := &records[i]
		switch r.Status {
		case BillingPending:
			stats.PendingCount++
			stats.PendingAmount += r.TotalAmount
		case BillingProcessed:
			if r.ProcessedAt != nil && DateOf(*r.ProcessedAt) == today {
				stats.ProcessedTodayCount++
				stats.BilledTodayAmount += r.TotalAmount
			}
		}
	}
	return stats
}
