package mailer

type Service interface {
	SendReservationConfirmation(toEmail, confirmationCode, stayDates, totalPrice string) error
}
