package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/http/response"
	"github.com/vistamar/club-reservations/internal/service/reservations"
)

type createReservationRequest struct {
	AccommodationID string `json:"accommodationId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
}

func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.AccommodationID == "" {
		response.BadRequest(w, "accommodationId is required")
		return
	}

	checkIn, err := domain.ParseDate(req.CheckIn)
	if err != nil {
		response.BadRequest(w, "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := domain.ParseDate(req.CheckOut)
	if err != nil {
		response.BadRequest(w, "checkOut must be YYYY-MM-DD")
		return
	}

	claims := claimsFrom(r)
	res, err := h.reservations.Create(r.Context(), reservations.CreateRequest{
		AccommodationID: req.AccommodationID,
		MemberID:        claims.Sub,
		MemberEmail:     claims.Email,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
	})
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListMyReservations returns the caller's own reservations.
func (h *Handlers) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := paging(r)
	if !ok {
		response.BadRequest(w, "invalid limit or offset")
		return
	}
	status, ok := statusFilter(r)
	if !ok {
		response.BadRequest(w, "invalid status filter")
		return
	}

	list, err := h.reservations.ListByMember(r.Context(), claimsFrom(r).Sub, limit, offset, status)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetReservation returns one reservation. Members may only read their
// own; the ownership check answers 404 rather than 403 so ids are not
// probeable.
func (h *Handlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.reservations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if res.MemberID != claimsFrom(r).Sub {
		response.DomainError(w, domain.ErrReservationNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handlers) CancelMyReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if res.MemberID != claimsFrom(r).Sub {
		response.DomainError(w, domain.ErrReservationNotFound)
		return
	}

	res, err = h.reservations.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Staff endpoints below: no ownership filter, full list access.

func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := paging(r)
	if !ok {
		response.BadRequest(w, "invalid limit or offset")
		return
	}
	status, ok := statusFilter(r)
	if !ok {
		response.BadRequest(w, "invalid status filter")
		return
	}

	list, err := h.reservations.List(r.Context(), limit, offset, status)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservations.Confirm)
}

func (h *Handlers) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservations.CheckIn)
}

func (h *Handlers) CheckOutReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservations.CheckOut)
}

type markPaidRequest struct {
	PaymentRef string `json:"paymentRef"`
}

func (h *Handlers) MarkReservationPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.PaymentRef == "" {
		response.BadRequest(w, "paymentRef is required")
		return
	}

	res, err := h.reservations.MarkPaid(r.Context(), chi.URLParam(r, "id"), req.PaymentRef)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) CancelReservation(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.reservations.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id string) (*domain.Reservation, error)) {
	res, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
