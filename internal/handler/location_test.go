package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/model"
)

func TestLocationList(t *testing.T) {
	env := newTestEnv(t)
	h := NewLocationHandler(env.locations)

	c, rec := request(t, http.MethodGet, "/api/locations", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var locations []model.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &locations))
	require.Len(t, locations, 4)
	// Ordered by name.
	assert.Equal(t, "Airport Terminal 1", locations[0].Name)
}

func TestLocationCreate(t *testing.T) {
	env := newTestEnv(t)
	h := NewLocationHandler(env.locations)

	c, rec := request(t, http.MethodPost, "/api/locations",
		`{"name":"Harbor Hotel","address":"12 Quay Rd","type":"hotel"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var loc model.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loc))
	assert.NotZero(t, loc.ID)
	assert.Equal(t, model.LocationHotel, loc.Type)
}

func TestLocationCreateDefaultsType(t *testing.T) {
	env := newTestEnv(t)
	h := NewLocationHandler(env.locations)

	c, rec := request(t, http.MethodPost, "/api/locations",
		`{"name":"Depot","address":"1 Yard Ln"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var loc model.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loc))
	assert.Equal(t, model.LocationOther, loc.Type)
}

func TestLocationCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewLocationHandler(env.locations)

	c, rec := request(t, http.MethodPost, "/api/locations", `{"name":"Depot"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name and address are required")

	c, rec = request(t, http.MethodPost, "/api/locations",
		`{"name":"Depot","address":"1 Yard Ln","type":"warehouse"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid location type")
}
