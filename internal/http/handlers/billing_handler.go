package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/http/response"
	"github.com/vistamar/club-reservations/internal/service/billing"
)

type gateEntryRequest struct {
	MemberCode      string               `json:"memberCode"`
	CompanionsCount int                  `json:"companionsCount"`
	Items           []domain.BillingItem `json:"billingItems"`
	AccessTime      *time.Time           `json:"accessTime,omitempty"`
}

// RecordGateEntry registers companion charges at the gate. The
// gatekeeper's name comes from the token, not the body.
func (h *Handlers) RecordGateEntry(w http.ResponseWriter, r *http.Request) {
	var req gateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.MemberCode == "" {
		response.BadRequest(w, "memberCode is required")
		return
	}
	if len(req.Items) == 0 {
		response.BadRequest(w, "at least one billing item is required")
		return
	}
	for _, item := range req.Items {
		if item.Description == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			response.BadRequest(w, "billing items need a description, quantity >= 1 and a non-negative unit price")
			return
		}
	}

	entry := billing.GateEntryRequest{
		MemberCode:      req.MemberCode,
		CompanionsCount: req.CompanionsCount,
		Items:           req.Items,
		GateKeeperName:  claimsFrom(r).Email,
	}
	if req.AccessTime != nil {
		entry.AccessTime = *req.AccessTime
	}

	rec, err := h.billing.RecordGateEntry(r.Context(), entry)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handlers) ListPendingBilling(w http.ResponseWriter, r *http.Request) {
	list, err := h.billing.Pending(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetBillingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.billing.Stats(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type processBillingRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (h *Handlers) ProcessBilling(w http.ResponseWriter, r *http.Request) {
	var req processBillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	rec, err := h.billing.Process(r.Context(), chi.URLParam(r, "id"), claimsFrom(r).Email, req.Notes)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) CancelBilling(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	rec, err := h.billing.Cancel(r.Context(), chi.URLParam(r, "id"), claimsFrom(r).Email, req.Reason)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
