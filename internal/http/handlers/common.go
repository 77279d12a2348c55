package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vistamar/club-reservations/internal/domain"
)

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// dateParam parses a required YYYY-MM-DD query parameter.
func dateParam(r *http.Request, name string) (domain.Date, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return domain.Date{}, false
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

// optionalDateParam parses a date parameter that may be absent.
func optionalDateParam(r *http.Request, name string) (domain.Date, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return domain.Date{}, true
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

// paging parses limit/offset with the usual defaults and caps.
func paging(r *http.Request) (limit, offset int, ok bool) {
	limit, offset = 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}

// statusFilter parses an optional reservation-status query parameter.
func statusFilter(r *http.Request) (*domain.ReservationStatus, bool) {
	v := r.URL.Query().Get("status")
	if v == "" {
		return nil, true
	}
	status, ok := domain.ParseReservationStatus(v)
	if !ok {
		return nil, false
	}
	return &status, true
}
