package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/model"
)

func TestDriverCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := &DriverRepo{DB: db}

	phone := "555-1234"
	id, err := repo.Create(context.Background(), "Dana", "dana@transport.com", "hash", &phone)
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(context.Background(), "dana@transport.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "Dana", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	require.NotNil(t, byEmail.Phone)
	assert.Equal(t, "555-1234", *byEmail.Phone)

	byID, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, byEmail.Email, byID.Email)

	_, err = repo.GetByEmail(context.Background(), "nobody@transport.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDriverCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := &DriverRepo{DB: db}

	_, err := repo.Create(context.Background(), "Dana", "dana@transport.com", "hash", nil)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), "Other", "dana@transport.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDriverUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := &DriverRepo{DB: db}
	id := newTestDriver(t, db, "Dana", "dana@transport.com")

	phone := "555-9999"
	require.NoError(t, repo.Update(context.Background(), id, "Dana W", "danaw@transport.com", &phone, nil))

	d, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Dana W", d.Name)
	assert.Equal(t, "danaw@transport.com", d.Email)
	require.NotNil(t, d.Phone)
	assert.Equal(t, "555-9999", *d.Phone)
	assert.Equal(t, "not-a-real-hash", d.PasswordHash, "password must be untouched when not supplied")

	newHash := "rehashed"
	require.NoError(t, repo.Update(context.Background(), id, "Dana W", "danaw@transport.com", nil, &newHash))
	d, err = repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "rehashed", d.PasswordHash)

	assert.ErrorIs(t, repo.Update(context.Background(), 9999, "x", "x@y.com", nil, nil), ErrNotFound)
}

func TestDriverDeleteBlockedByAssignedJobs(t *testing.T) {
	db := newTestDB(t)
	repo := &DriverRepo{DB: db}
	id := newTestDriver(t, db, "Dana", "dana@transport.com")

	newTestJob(t, db, model.Job{PickupDate: "2026-09-01", PickupTime: "08:00", FlightNumber: "AA200",
		PickupLocation: "a", DropoffLocation: "b", DriverID: &id, Status: model.StatusAssigned})

	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrConflict)

	// Unassign the job, then the delete goes through.
	jobs := &JobRepo{DB: db}
	all, err := jobs.ListByDriver(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, jobs.Update(context.Background(), all[0].ID, Update{Status: model.StatusUnassigned}))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrNotFound)
}

func TestLocationListAndCreate(t *testing.T) {
	db := newTestDB(t)
	repo := &LocationRepo{DB: db}

	seeded, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded, 4, "schema init seeds starter locations")

	loc, err := repo.Create(context.Background(), "Harbor Hotel", "12 Quay Rd", model.LocationHotel)
	require.NoError(t, err)
	assert.NotZero(t, loc.ID)
	assert.Equal(t, "Harbor Hotel", loc.Name)
	assert.Equal(t, model.LocationHotel, loc.Type)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
