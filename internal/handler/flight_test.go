package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/flight"
	"github.com/aerolift/dispatch/internal/model"
)

func TestFlightStatusInvalidNumber(t *testing.T) {
	env := newTestEnv(t)
	h := NewFlightHandler(env.jobs, flight.NewClient("http://example.invalid", "key"))

	c, rec := request(t, http.MethodGet, "/api/flights/status/nope", "", "flightNumber", "nope!")
	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid flight number format")
}

func TestFlightStatusServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	// No API key: a live call would fail, so a 200 proves the cache path.
	h := NewFlightHandler(env.jobs, flight.NewClient("http://example.invalid", ""))

	job := model.Job{PickupDate: "2026-09-07", PickupTime: "14:30", FlightNumber: "BA100",
		PickupLocation: "a", DropoffLocation: "b", NumberOfPassengers: 1, Status: model.StatusUnassigned}
	_, err := env.jobs.CreateWithRecurrence(context.Background(), &job, nil)
	require.NoError(t, err)

	snapshot, err := json.Marshal(model.FlightStatus{FlightNumber: "BA100", Status: "active", Airline: "British Airways"})
	require.NoError(t, err)
	at := time.Now().UTC().Truncate(time.Second)
	_, err = env.jobs.UpdateFlightCache(context.Background(), "BA100", "active", string(snapshot), at)
	require.NoError(t, err)

	c, rec := request(t, http.MethodGet, "/api/flights/status/BA100", "", "flightNumber", "ba100")
	require.NoError(t, h.Status(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp flightStatusResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BA100", resp.FlightNumber)
	assert.Equal(t, "active", resp.Status)
	require.NotNil(t, resp.CachedAt)
	assert.True(t, resp.CachedAt.Equal(at))
}

func TestFlightStatusFallsBackToLiveFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"flight_status":"landed","departure":{"airport":"LHR"},"arrival":{"airport":"JFK"},"airline":{"name":"BA"}}]}`))
	}))
	defer srv.Close()

	env := newTestEnv(t)
	h := NewFlightHandler(env.jobs, flight.NewClient(srv.URL, "key"))

	c, rec := request(t, http.MethodGet, "/api/flights/status/BA100", "", "flightNumber", "BA100")
	require.NoError(t, h.Status(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp flightStatusResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "landed", resp.Status)
	assert.Nil(t, resp.CachedAt)
}

func TestFlightStatusProviderHasNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	env := newTestEnv(t)
	h := NewFlightHandler(env.jobs, flight.NewClient(srv.URL, "key"))

	c, rec := request(t, http.MethodGet, "/api/flights/status/ZZ999", "", "flightNumber", "ZZ999")
	require.NoError(t, h.Status(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
	assert.Contains(t, rec.Body.String(), "Flight information not available")
}

func TestFlightStatusNoAPIKey(t *testing.T) {
	env := newTestEnv(t)
	h := NewFlightHandler(env.jobs, flight.NewClient("http://example.invalid", ""))

	c, rec := request(t, http.MethodGet, "/api/flights/status/BA100", "", "flightNumber", "BA100")
	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "AviationStack API key not configured")
}
