package mailer

import (
	"github.com/vistamar/club-reservations/pkg/logger"
)

type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendReservationConfirmation(toEmail, confirmationCode, stayDates, totalPrice string) error {
	logger.Info("[DEV MAIL] Reservation confirmation",
		"to", toEmail,
		"confirmation_code", confirmationCode,
		"stay", stayDates,
		"total", totalPrice,
	)
	return nil
}
