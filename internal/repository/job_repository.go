package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/model"
)

type JobRepo struct{ DB *database.DB }

func NewJobRepo(db *database.DB) *JobRepo { return &JobRepo{DB: db} }

// jobColumns is the select list shared by every job query; d.name comes
// from the LEFT JOIN against drivers.
const jobColumns = `j.id, j.pickup_date, j.pickup_time, j.flight_number, j.pickup_location,
	j.dropoff_location, j.driver_id, j.number_of_passengers, j.driver_picked_up_at,
	j.driver_dropped_off_at, j.status, j.is_recurring, j.recurrence_frequency,
	j.recurrence_count, j.flight_status, j.flight_status_updated_at, j.flight_status_data,
	j.created_at, j.updated_at, d.name`

const jobInsert = `INSERT INTO jobs (pickup_date, pickup_time, flight_number, pickup_location,
	dropoff_location, driver_id, number_of_passengers, status, is_recurring,
	recurrence_frequency, recurrence_count) VALUES (?,?,?,?,?,?,?,?,?,?,?)`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(s scanner) (model.Job, error) {
	var j model.Job
	var driverID sql.NullInt64
	var driverName, freq, flightStatus, flightData sql.NullString
	var pickedUp, droppedOff, statusUpdated sql.NullTime

	err := s.Scan(&j.ID, &j.PickupDate, &j.PickupTime, &j.FlightNumber, &j.PickupLocation,
		&j.DropoffLocation, &driverID, &j.NumberOfPassengers, &pickedUp,
		&droppedOff, &j.Status, &j.IsRecurring, &freq,
		&j.RecurrenceCount, &flightStatus, &statusUpdated, &flightData,
		&j.CreatedAt, &j.UpdatedAt, &driverName)
	if err != nil {
		return model.Job{}, err
	}
	if driverID.Valid {
		j.DriverID = &driverID.Int64
	}
	if driverName.Valid {
		j.DriverName = &driverName.String
	}
	if freq.Valid {
		j.RecurrenceFrequency = &freq.String
	}
	if flightStatus.Valid {
		j.FlightStatus = &flightStatus.String
	}
	if flightData.Valid {
		j.FlightStatusData = &flightData.String
	}
	if pickedUp.Valid {
		t := pickedUp.Time
		j.DriverPickedUpAt = &t
	}
	if droppedOff.Valid {
		t := droppedOff.Time
		j.DriverDroppedOffAt = &t
	}
	if statusUpdated.Valid {
		t := statusUpdated.Time
		j.FlightStatusUpdatedAt = &t
	}
	return j, nil
}

// Filter narrows the job list; zero values mean "no filter".
type Filter struct {
	Status   string
	DriverID *int64
	Date     string
}

// List returns jobs matching the filter, joined with the driver name and
// ordered by pickup date then time.
func (r *JobRepo) List(ctx context.Context, f Filter) ([]model.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs j LEFT JOIN drivers d ON j.driver_id = d.id WHERE 1=1"
	args := []interface{}{}
	if f.Status != "" {
		query += " AND j.status = ?"
		args = append(args, f.Status)
	}
	if f.DriverID != nil {
		query += " AND j.driver_id = ?"
		args = append(args, *f.DriverID)
	}
	if f.Date != "" {
		query += " AND j.pickup_date = ?"
		args = append(args, f.Date)
	}
	query += " ORDER BY j.pickup_date, j.pickup_time"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ListByDriver returns every job assigned to the driver.
func (r *JobRepo) ListByDriver(ctx context.Context, driverID int64) ([]model.Job, error) {
	return r.List(ctx, Filter{DriverID: &driverID})
}

// GetByID fetches a single job joined with its driver's name.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (model.Job, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs j LEFT JOIN drivers d ON j.driver_id = d.id WHERE j.id = ?", id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, ErrNotFound
	}
	return j, err
}

// CreateWithRecurrence inserts the job plus one row per future date, all in
// a single transaction so a failure mid-series rolls the whole series back.
// Future instances always start Unassigned with no driver; recurring jobs
// are templates whose occurrences need manual re-assignment. Returns the
// total number of rows created and sets job.ID to the original's id.
func (r *JobRepo) CreateWithRecurrence(ctx context.Context, job *model.Job, futureDates []string) (int, error) {
	tx, err := r.DB.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := tx.InsertID(ctx, jobInsert,
		job.PickupDate, job.PickupTime, job.FlightNumber, job.PickupLocation,
		job.DropoffLocation, job.DriverID, job.NumberOfPassengers, job.Status,
		job.IsRecurring, job.RecurrenceFrequency, job.RecurrenceCount)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	job.ID = id

	for _, date := range futureDates {
		_, err := tx.InsertID(ctx, jobInsert,
			date, job.PickupTime, job.FlightNumber, job.PickupLocation,
			job.DropoffLocation, nil, job.NumberOfPassengers, model.StatusUnassigned,
			job.IsRecurring, job.RecurrenceFrequency, job.RecurrenceCount)
		if err != nil {
			return 0, fmt.Errorf("insert recurring instance %s: %w", date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return 1 + len(futureDates), nil
}

// Update describes a partial job edit; nil fields keep their current value.
// DriverID and Status are already resolved by the caller.
type Update struct {
	PickupDate         *string
	PickupTime         *string
	FlightNumber       *string
	PickupLocation     *string
	DropoffLocation    *string
	DriverID           *int64
	NumberOfPassengers *int
	Status             string
}

func (r *JobRepo) Update(ctx context.Context, id int64, u Update) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET
			pickup_date = COALESCE(?, pickup_date),
			pickup_time = COALESCE(?, pickup_time),
			flight_number = COALESCE(?, flight_number),
			pickup_location = COALESCE(?, pickup_location),
			dropoff_location = COALESCE(?, dropoff_location),
			driver_id = ?,
			number_of_passengers = COALESCE(?, number_of_passengers),
			status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		u.PickupDate, u.PickupTime, u.FlightNumber, u.PickupLocation,
		u.DropoffLocation, u.DriverID, u.NumberOfPassengers, u.Status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPickedUp stamps the pickup time, but only when the job is assigned to
// the given driver; ErrNotFound otherwise, so the API cannot be used to
// probe for jobs belonging to other drivers. A repeat call overwrites.
func (r *JobRepo) SetPickedUp(ctx context.Context, jobID, driverID int64, at time.Time) error {
	return r.stamp(ctx, "driver_picked_up_at", jobID, driverID, at)
}

// SetDroppedOff stamps the dropoff time under the same ownership rule.
func (r *JobRepo) SetDroppedOff(ctx context.Context, jobID, driverID int64, at time.Time) error {
	return r.stamp(ctx, "driver_dropped_off_at", jobID, driverID, at)
}

func (r *JobRepo) stamp(ctx context.Context, column string, jobID, driverID int64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE jobs SET "+column+" = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND driver_id = ?",
		at, jobID, driverID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctActiveFlightNumbers returns the distinct non-empty flight numbers
// on jobs at or after the given pickup date (YYYY-MM-DD). This bounds each
// refresh pass to operationally relevant flights.
func (r *JobRepo) DistinctActiveFlightNumbers(ctx context.Context, since string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT flight_number FROM jobs WHERE pickup_date >= ? AND flight_number <> '' ORDER BY flight_number",
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []string
	for rows.Next() {
		var fn string
		if err := rows.Scan(&fn); err != nil {
			return nil, err
		}
		flights = append(flights, fn)
	}
	return flights, rows.Err()
}

// UpdateFlightCache overwrites the cached status on every job sharing the
// flight number; the cache is keyed by flight number, not by job. Returns
// the number of rows touched.
func (r *JobRepo) UpdateFlightCache(ctx context.Context, flightNumber, status, data string, at time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE jobs SET flight_status = ?, flight_status_data = ?, flight_status_updated_at = ? WHERE flight_number = ?",
		status, data, at, flightNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkFlightNotFound records a failed lookup, but only on rows that never
// received any status: a previously-good cache must not be clobbered by a
// transient provider failure.
func (r *JobRepo) MarkFlightNotFound(ctx context.Context, flightNumber string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE jobs SET flight_status = 'Not found', flight_status_updated_at = ? WHERE flight_number = ? AND flight_status IS NULL",
		at, flightNumber)
	return err
}

// LatestFlightCache returns the freshest persisted snapshot for a flight
// number, ErrNotFound when no job carries one yet.
func (r *JobRepo) LatestFlightCache(ctx context.Context, flightNumber string) (string, time.Time, error) {
	var data string
	var at time.Time
	err := r.DB.QueryRowContext(ctx,
		`SELECT flight_status_data, flight_status_updated_at FROM jobs
		WHERE flight_number = ? AND flight_status_data IS NOT NULL AND flight_status_updated_at IS NOT NULL
		ORDER BY flight_status_updated_at DESC LIMIT 1`,
		flightNumber).Scan(&data, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNotFound
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return data, at, nil
}
