// Package flight queries the AviationStack API for per-flight status
// snapshots and normalizes the provider payload.
package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aerolift/dispatch/internal/model"
)

// ErrInvalidFlightNumber is returned for flight numbers that do not match
// the IATA airline-code-plus-digits form; no network call is made.
var ErrInvalidFlightNumber = errors.New("invalid flight number format")

// ErrNoAPIKey is returned when no provider API key is configured.
var ErrNoAPIKey = errors.New("aviationstack api key not configured")

var flightNumberRe = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// ValidFlightNumber reports whether s looks like "AA123".
func ValidFlightNumber(s string) bool { return flightNumberRe.MatchString(s) }

// Client performs flight status lookups against the AviationStack HTTP API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// aviationstack wire format, trimmed to the fields we keep.
type apiEndpoint struct {
	Airport   string  `json:"airport"`
	Scheduled *string `json:"scheduled"`
	Actual    *string `json:"actual"`
	Delay     *int    `json:"delay"`
}

type apiFlight struct {
	FlightStatus string `json:"flight_status"`
	Departure    apiEndpoint
	Arrival      apiEndpoint
	Airline      struct {
		Name string `json:"name"`
	} `json:"airline"`
}

type apiResponse struct {
	Data []apiFlight `json:"data"`
}

// Fetch returns the latest snapshot for a flight number. (nil, nil) means
// the provider had no data for the flight; an error means the lookup could
// not be performed (bad flight number, missing key, transport or API
// failure). Callers treat both nil cases as "status unknown", never as
// something to retry within a pass.
func (c *Client) Fetch(ctx context.Context, flightNumber string) (*model.FlightStatus, error) {
	if !ValidFlightNumber(flightNumber) {
		return nil, ErrInvalidFlightNumber
	}
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("access_key", c.APIKey)
	params.Set("flight_iata", flightNumber)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aviationstack request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aviationstack: unexpected status %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("aviationstack decode: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, nil
	}

	f := out.Data[0]
	return &model.FlightStatus{
		FlightNumber: flightNumber,
		Status:       orUnknown(f.FlightStatus),
		Departure:    normalizeEndpoint(f.Departure),
		Arrival:      normalizeEndpoint(f.Arrival),
		Airline:      orUnknown(f.Airline.Name),
	}, nil
}

// Each field is defaulted independently; a partially filled provider
// record still yields a usable snapshot.
func normalizeEndpoint(e apiEndpoint) model.FlightEndpoint {
	return model.FlightEndpoint{
		Airport:   orUnknown(e.Airport),
		Scheduled: e.Scheduled,
		Actual:    e.Actual,
		Delay:     e.Delay,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
