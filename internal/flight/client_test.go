package flight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFlightNumber(t *testing.T) {
	assert.True(t, ValidFlightNumber("AA123"))
	assert.True(t, ValidFlightNumber("LH1"))
	assert.False(t, ValidFlightNumber("aa123"))
	assert.False(t, ValidFlightNumber("123AA"))
	assert.False(t, ValidFlightNumber("AA 123"))
	assert.False(t, ValidFlightNumber(""))
}

func TestFetchNormalizesProviderPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "BA100", r.URL.Query().Get("flight_iata"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"flight_status":"active",
			"departure":{"airport":"Heathrow","scheduled":"2026-08-31T10:00:00+00:00","actual":null,"delay":15},
			"arrival":{"airport":"JFK","scheduled":"2026-08-31T18:00:00+00:00","actual":null,"delay":null},
			"airline":{"name":"British Airways"}
		}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	got, err := c.Fetch(context.Background(), "BA100")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "BA100", got.FlightNumber)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, "British Airways", got.Airline)
	assert.Equal(t, "Heathrow", got.Departure.Airport)
	require.NotNil(t, got.Departure.Delay)
	assert.Equal(t, 15, *got.Departure.Delay)
	assert.Nil(t, got.Departure.Actual)
	assert.Equal(t, "JFK", got.Arrival.Airport)
	assert.Nil(t, got.Arrival.Delay)
}

func TestFetchDefaultsMissingFieldsToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"departure":{},"arrival":{}}]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "secret").Fetch(context.Background(), "AA200")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Unknown", got.Status)
	assert.Equal(t, "Unknown", got.Airline)
	assert.Equal(t, "Unknown", got.Departure.Airport)
	assert.Equal(t, "Unknown", got.Arrival.Airport)
}

func TestFetchEmptyDataMeansNoFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "secret").Fetch(context.Background(), "ZZ999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFetchNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret").Fetch(context.Background(), "AA200")
	assert.Error(t, err)
}

func TestFetchRejectsBadFlightNumberWithoutRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret").Fetch(context.Background(), "not a flight")
	assert.ErrorIs(t, err, ErrInvalidFlightNumber)
	assert.False(t, called)
}

func TestFetchWithoutAPIKey(t *testing.T) {
	_, err := NewClient("http://example.invalid", "").Fetch(context.Background(), "AA200")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
