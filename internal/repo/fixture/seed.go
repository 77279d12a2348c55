package fixture

import (
	"time"

	"github.com/vistamar/club-reservations/internal/domain"
)

// Seed loads the demo data set the portal ships with: a couple of live
// reservations, a blocked maintenance week, and one pending companion
// charge. Dates are placed relative to today so the calendar always has
// something to show.
func Seed(s *Store) {
	today := domain.Today()
	now := time.Now()

	res := []domain.Reservation{
		{
			ID:               "res-1",
			AccommodationID:  "1A",
			MemberID:         "member-100",
			CheckIn:          today.AddDays(3),
			CheckOut:         today.AddDays(5),
			Guests:           2,
			Status:           domain.StatusConfirmed,
			PaymentStatus:    domain.PaymentPaid,
			PaymentRef:       "pi_demo_001",
			TotalPrice:       460,
			ConfirmationCode: "QZ4M2K",
			CreatedAt:        now.AddDate(0, 0, -7),
			UpdatedAt:        now.AddDate(0, 0, -6),
		},
		{
			ID:               "res-2",
			AccommodationID:  "1A",
			MemberID:         "member-101",
			CheckIn:          today.AddDays(10),
			CheckOut:         today.AddDays(14),
			Guests:           4,
			Status:           domain.StatusPending,
			PaymentStatus:    domain.PaymentPending,
			TotalPrice:       980,
			ConfirmationCode: "HV7T3P",
			CreatedAt:        now.AddDate(0, 0, -1),
			UpdatedAt:        now.AddDate(0, 0, -1),
		},
	}
	for i := range res {
		cp := res[i]
		s.reservations[cp.ID] = &cp
	}

	for i := 20; i < 25; i++ {
		s.BlockDate("1A", today.AddDays(i))
	}

	billing := domain.CompanionBillingRecord{
		ID:              "bill-1",
		MemberCode:      "VM-0450",
		CompanionsCount: 3,
		Items: []domain.BillingItem{
			{Description: "Acceso acompañante adulto", Quantity: 2, UnitPrice: 150, Amount: 300},
			{Description: "Acceso acompañante menor", Quantity: 1, UnitPrice: 75, Amount: 75},
		},
		TotalAmount:    375,
		Status:         domain.BillingPending,
		GateKeeperName: "R. Delgado",
		AccessTime:     now.Add(-2 * time.Hour),
	}
	s.billing[billing.ID] = &billing
}
