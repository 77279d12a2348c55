package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/http/response"
	"github.com/vistamar/club-reservations/pkg/format"
)

// GetPolicy returns the date-picker window: the minimum check-in and,
// when a check-in is supplied, the valid check-out bounds for it.
func (h *Handlers) GetPolicy(w http.ResponseWriter, r *http.Request) {
	checkIn, ok := optionalDateParam(r, "check_in")
	if !ok {
		response.BadRequest(w, "check_in must be YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, h.reservations.PolicyWindow(checkIn))
}

type validateDatesResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateDates runs the booking-window rules without pricing anything.
// Invalid input answers 200 with valid:false so the UI can show the
// specific rule that failed inline.
func (h *Handlers) ValidateDates(w http.ResponseWriter, r *http.Request) {
	checkIn, okIn := dateParam(r, "check_in")
	checkOut, okOut := dateParam(r, "check_out")
	if !okIn || !okOut {
		response.BadRequest(w, "check_in and check_out are required as YYYY-MM-DD")
		return
	}

	if err := h.reservations.ValidateDates(checkIn, checkOut); err != nil {
		writeJSON(w, http.StatusOK, validateDatesResponse{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateDatesResponse{Valid: true})
}

type quoteResponse struct {
	AccommodationID string                `json:"accommodationId"`
	CheckIn         domain.Date           `json:"checkIn"`
	CheckOut        domain.Date           `json:"checkOut"`
	Nights          int                   `json:"nights"`
	Breakdown       domain.PriceBreakdown `json:"breakdown"`
	TotalFormatted  string                `json:"totalFormatted"`
	StayFormatted   string                `json:"stayFormatted"`
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	accommodationID := r.URL.Query().Get("accommodation_id")
	if accommodationID == "" {
		response.BadRequest(w, "accommodation_id is required")
		return
	}
	checkIn, okIn := dateParam(r, "check_in")
	checkOut, okOut := dateParam(r, "check_out")
	if !okIn || !okOut {
		response.BadRequest(w, "check_in and check_out are required as YYYY-MM-DD")
		return
	}

	quote, err := h.reservations.Quote(r.Context(), accommodationID, checkIn, checkOut)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		AccommodationID: quote.AccommodationID,
		CheckIn:         quote.CheckIn,
		CheckOut:        quote.CheckOut,
		Nights:          quote.Nights,
		Breakdown:       quote.Breakdown,
		TotalFormatted:  format.FormatPrice(quote.Breakdown.TotalPrice, h.currency),
		StayFormatted: format.FormatDateSpanish(quote.CheckIn.Time()) + " — " +
			format.FormatDateSpanish(quote.CheckOut.Time()),
	})
}

// GetAvailability renders the month grid of day statuses for one
// accommodation, optionally overlaying the user's pending selection.
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	accommodationID := chi.URLParam(r, "accommodationID")

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "invalid year")
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			response.BadRequest(w, "invalid month")
			return
		}
		month = time.Month(n)
	}

	selIn, okIn := optionalDateParam(r, "selected_check_in")
	selOut, okOut := optionalDateParam(r, "selected_check_out")
	if !okIn || !okOut {
		response.BadRequest(w, "selected dates must be YYYY-MM-DD")
		return
	}

	view, err := h.reservations.MonthView(r.Context(), accommodationID, year, month,
		domain.Selection{CheckIn: selIn, CheckOut: selOut})
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
