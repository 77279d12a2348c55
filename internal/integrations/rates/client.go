package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/pkg/logger"
)

// Client fetches rates and holidays over HTTP. When the remote is
// unreachable it degrades to the bundled fixture so pricing keeps
// working offline; a healthy remote answering "not found" is surfaced
// as ErrRateNotFound and never masked by the fallback.
type Client struct {
	baseURL  string
	http     *http.Client
	fallback *Fixture
}

func NewClient(baseURL string, timeout time.Duration, fallback *Fixture) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		fallback: fallback,
	}
}

type ratesQuery struct {
	AccommodationID string `url:"accommodation_id"`
}

type holidaysQuery struct {
	Year int `url:"year"`
}

func (c *Client) Rates(ctx context.Context, accommodationID string) (domain.RateTable, error) {
	var table domain.RateTable
	err := c.get(ctx, "/rates", ratesQuery{AccommodationID: accommodationID}, &table)
	if err == errNotFound {
		return domain.RateTable{}, domain.ErrRateNotFound
	}
	if err != nil {
		logger.WarnContext(ctx, "Rates service unreachable, using fixture rates",
			"error", err, "accommodation_id", accommodationID)
		return c.fallback.Rates(ctx, accommodationID)
	}
	if !table.Valid() {
		return domain.RateTable{}, domain.ErrRateNotFound
	}
	return table, nil
}

func (c *Client) Holidays(ctx context.Context, year int) (domain.HolidayCalendar, error) {
	var days []domain.Date
	err := c.get(ctx, "/holidays", holidaysQuery{Year: year}, &days)
	if err != nil {
		logger.WarnContext(ctx, "Rates service unreachable, using fixture holidays",
			"error", err, "year", year)
		return c.fallback.Holidays(ctx, year)
	}
	return domain.NewHolidayCalendar(days...), nil
}

var errNotFound = fmt.Errorf("not found")

func (c *Client) get(ctx context.Context, path string, params interface{}, out interface{}) error {
	values, err := query.Values(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("rates service returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
