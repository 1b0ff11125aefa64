package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/model"
)

// newTestDB opens a throwaway SQLite file with the full schema and seed
// data. A file beats :memory: here because the pool holds more than one
// connection.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open("", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.InitSchema(context.Background(), 4))
	return db
}

func newTestDriver(t *testing.T, db *database.DB, name, email string) int64 {
	t.Helper()
	id, err := (&DriverRepo{DB: db}).Create(context.Background(), name, email, "not-a-real-hash", nil)
	require.NoError(t, err)
	return id
}

func newTestJob(t *testing.T, db *database.DB, job model.Job) int64 {
	t.Helper()
	if job.Status == "" {
		job.Status = model.StatusUnassigned
	}
	if job.NumberOfPassengers == 0 {
		job.NumberOfPassengers = 1
	}
	_, err := (&JobRepo{DB: db}).CreateWithRecurrence(context.Background(), &job, nil)
	require.NoError(t, err)
	return job.ID
}
