package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/model"
)

func TestDriverCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	h := NewDriverHandler(env.cfg, env.drivers, env.jobs)

	c, rec := request(t, http.MethodPost, "/api/drivers",
		`{"name":"Dana","email":"dana@transport.com","password":"hunter22","phone":"555-1234"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var d model.Driver
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.NotZero(t, d.ID)
	assert.NotContains(t, rec.Body.String(), "password", "hash must never leave the API")

	c, rec = request(t, http.MethodGet, "/api/drivers", "")
	require.NoError(t, h.List(c))
	var drivers []model.Driver
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drivers))
	// Seeded admin plus the new driver.
	assert.Len(t, drivers, 2)
}

func TestDriverCreateRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	h := NewDriverHandler(env.cfg, env.drivers, env.jobs)

	c, rec := request(t, http.MethodPost, "/api/drivers",
		`{"name":"Dana","email":"dana@transport.com"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDriverUpdateKeepsPassword(t *testing.T) {
	env := newTestEnv(t)
	h := NewDriverHandler(env.cfg, env.drivers, env.jobs)
	auth := NewAuthHandler(env.cfg, env.drivers)

	c, rec := request(t, http.MethodPost, "/api/auth/register",
		`{"name":"Dana","email":"dana@transport.com","password":"hunter22"}`)
	require.NoError(t, auth.Register(c))
	var reg authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	id := fmt.Sprint(reg.User.ID)

	c, rec = request(t, http.MethodPut, "/api/drivers/"+id,
		`{"name":"Dana W","email":"dana@transport.com","phone":"555-9999"}`, "id", id)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// The old password still logs in after an update without one.
	c, rec = request(t, http.MethodPost, "/api/auth/login",
		`{"email":"dana@transport.com","password":"hunter22"}`)
	require.NoError(t, auth.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDriverDeleteWithJobs(t *testing.T) {
	env := newTestEnv(t)
	h := NewDriverHandler(env.cfg, env.drivers, env.jobs)
	jobsHandler := NewJobHandler(env.jobs)
	driverID := createDriver(t, env, "Dana", "dana@transport.com")
	id := fmt.Sprint(driverID)

	body := fmt.Sprintf(`{"pickupDate":"2026-09-07","pickupTime":"14:30","flightNumber":"BA100",
		"pickupLocation":"a","dropoffLocation":"b","driverId":%d}`, driverID)
	c, rec := request(t, http.MethodPost, "/api/jobs", body)
	require.NoError(t, jobsHandler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = request(t, http.MethodDelete, "/api/drivers/"+id, "", "id", id)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot delete driver with assigned jobs")

	c, rec = request(t, http.MethodGet, "/api/drivers/"+id+"/jobs", "", "id", id)
	require.NoError(t, h.ListJobs(c))
	var jobs []model.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 1)
}
