package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistamar/club-reservations/internal/cache"
	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/integrations/rates"
	"github.com/vistamar/club-reservations/internal/mailer"
	"github.com/vistamar/club-reservations/internal/payments"
	"github.com/vistamar/club-reservations/internal/repo/fixture"
	"github.com/vistamar/club-reservations/internal/service/billing"
	"github.com/vistamar/club-reservations/internal/service/reservations"
	"github.com/vistamar/club-reservations/pkg/auth"
	"github.com/vistamar/club-reservations/pkg/events"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	store := fixture.NewStore()
	reservationSvc := reservations.NewService(
		store.Reservations(), store.Calendar(), rates.NewFixture(),
		cache.Passthrough{}, events.NopBus{}, payments.NewDevProcessor(),
		mailer.NewDevMailer(), domain.DefaultBookingPolicy(), "MXN",
	)
	billingSvc := billing.NewService(store.Billing(), events.NopBus{})
	h := New(reservationSvc, billingSvc, "MXN", testSecret)

	r := chi.NewRouter()
	r.Get("/policy", h.GetPolicy)
	r.Get("/policy/validate", h.ValidateDates)
	r.Get("/quotes", h.GetQuote)
	r.Get("/availability/{accommodationID}", h.GetAvailability)
	r.Route("/reservations", func(r chi.Router) {
		r.Use(h.RequireRole(auth.RoleMember))
		r.Post("/", h.CreateReservation)
		r.Get("/{id}", h.GetReservation)
		r.Post("/{id}/cancel", h.CancelMyReservation)
	})
	r.Route("/gate", func(r chi.Router) {
		r.Use(h.RequireRole(auth.RoleGatekeeper))
		r.Post("/billing", h.RecordGateEntry)
	})
	return r
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(sub, sub+"@vistamar.local", role, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestQuoteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	checkIn := domain.Today().AddDays(2)
	checkOut := checkIn.AddDays(2)
	url := fmt.Sprintf("/quotes?accommodation_id=1A&check_in=%s&check_out=%s", checkIn, checkOut)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Nights    int `json:"nights"`
		Breakdown struct {
			TotalPrice int64 `json:"totalPrice"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Nights)
	assert.Greater(t, body.Breakdown.TotalPrice, int64(0))
}

func TestQuoteEndpointRejectsBadDates(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/quotes?accommodation_id=1A&check_in=tomorrow&check_out=later", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpointReportsRule(t *testing.T) {
	router := newTestRouter(t)

	today := domain.Today()
	url := fmt.Sprintf("/policy/validate?check_in=%s&check_out=%s", today, today.AddDays(2))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body validateDatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.NotEmpty(t, body.Error)
}

func TestReservationRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A staff token cannot use the member surface.
	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", bearer(t, "staff-1", auth.RoleStaff))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateAndFetchReservation(t *testing.T) {
	router := newTestRouter(t)

	checkIn := domain.Today().AddDays(2)
	payload := fmt.Sprintf(`{"accommodationId":"1A","checkIn":"%s","checkOut":"%s","guests":2}`,
		checkIn, checkIn.AddDays(2))

	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", bearer(t, "member-1", auth.RoleMember))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "member-1", created.MemberID)
	assert.Len(t, created.ConfirmationCode, 6)

	// The owner can read it back.
	req = httptest.NewRequest(http.MethodGet, "/reservations/"+created.ID, nil)
	req.Header.Set("Authorization", bearer(t, "member-1", auth.RoleMember))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another member gets a 404, not a 403.
	req = httptest.NewRequest(http.MethodGet, "/reservations/"+created.ID, nil)
	req.Header.Set("Authorization", bearer(t, "member-2", auth.RoleMember))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationSameDayRejected(t *testing.T) {
	router := newTestRouter(t)

	today := domain.Today()
	payload := fmt.Sprintf(`{"accommodationId":"1A","checkIn":"%s","checkOut":"%s","guests":2}`,
		today, today.AddDays(2))

	req := httptest.NewRequest(http.MethodPost, "/reservations/", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", bearer(t, "member-1", auth.RoleMember))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CHECK_IN_TOO_EARLY", body.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/availability/1A?year=2024&month=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Days []struct {
			Date   string `json:"date"`
			Status string `json:"status"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Days, 31)
}

func TestGateBillingEndpoint(t *testing.T) {
	router := newTestRouter(t)

	payload := `{
		"memberCode": "VM-0450",
		"companionsCount": 2,
		"billingItems": [
			{"description": "Acceso de acompañante", "quantity": 2, "unitPrice": 100, "amount": 200}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/gate/billing", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", bearer(t, "gate-1", auth.RoleGatekeeper))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.CompanionBillingRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(200), created.TotalAmount)
	assert.Equal(t, domain.BillingPending, created.Status)
}
