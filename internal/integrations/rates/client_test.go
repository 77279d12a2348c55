package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vistamar/club-reservations/internal/domain"
)

func TestClientRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rates" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("accommodation_id"); got != "1A" {
			t.Errorf("unexpected accommodation_id %q", got)
		}
		_ = json.NewEncoder(w).Encode(domain.RateTable{
			AccommodationID: "1A", Weekday: 110, Weekend: 210, Holiday: 160,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, NewFixture())
	table, err := client.Rates(context.Background(), "1A")
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if table.Weekday != 110 {
		t.Errorf("expected remote rate 110, got %d", table.Weekday)
	}
}

func TestClientRatesNotFoundIsNotMasked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	// The fixture knows "1A", but a healthy remote answering 404 wins.
	client := NewClient(srv.URL, time.Second, NewFixture())
	_, err := client.Rates(context.Background(), "1A")
	if err != domain.ErrRateNotFound {
		t.Fatalf("expected ErrRateNotFound, got %v", err)
	}
}

func TestClientFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // unreachable on purpose

	client := NewClient(srv.URL, time.Second, NewFixture())
	table, err := client.Rates(context.Background(), "1A")
	if err != nil {
		t.Fatalf("expected fixture fallback, got %v", err)
	}
	if table.Weekday != 100 {
		t.Errorf("expected fixture rate 100, got %d", table.Weekday)
	}

	holidays, err := client.Holidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("expected fixture fallback, got %v", err)
	}
	if !holidays.Contains(domain.NewDate(2024, time.September, 16)) {
		t.Error("expected fixture holidays")
	}
}

func TestFixtureRates(t *testing.T) {
	f := NewFixture()

	table, err := f.Rates(context.Background(), "1A")
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if !table.Valid() {
		t.Error("fixture table should be valid")
	}

	if _, err := f.Rates(context.Background(), "9Z"); err != domain.ErrRateNotFound {
		t.Errorf("expected ErrRateNotFound, got %v", err)
	}
}
