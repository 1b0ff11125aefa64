package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/model"
)

type DriverRepo struct{ DB *database.DB }

func NewDriverRepo(db *database.DB) *DriverRepo { return &DriverRepo{DB: db} }

// List returns all drivers ordered by name, without password hashes.
func (r *DriverRepo) List(ctx context.Context) ([]model.Driver, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, phone, created_at FROM drivers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []model.Driver{}
	for rows.Next() {
		var d model.Driver
		var phone sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &phone, &d.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			d.Phone = &phone.String
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Create inserts a driver and returns its ID. The password arrives already
// hashed; email is normalized to lower case.
func (r *DriverRepo) Create(ctx context.Context, name, email, passwordHash string, phone *string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	id, err := r.DB.InsertID(ctx,
		"INSERT INTO drivers (name, email, password_hash, phone) VALUES (?,?,?,?)",
		name, email, passwordHash, phone)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return id, nil
}

// GetByEmail fetches a driver by normalized email, including the password
// hash for credential checks.
func (r *DriverRepo) GetByEmail(ctx context.Context, email string) (model.Driver, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT id, name, email, password_hash, phone, created_at FROM drivers WHERE email = ?", email)
}

// GetByID fetches a driver by id.
func (r *DriverRepo) GetByID(ctx context.Context, id int64) (model.Driver, error) {
	return r.get(ctx, "SELECT id, name, email, password_hash, phone, created_at FROM drivers WHERE id = ?", id)
}

func (r *DriverRepo) get(ctx context.Context, query string, arg interface{}) (model.Driver, error) {
	var d model.Driver
	var hash, phone sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&d.ID, &d.Name, &d.Email, &hash, &phone, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Driver{}, ErrNotFound
	}
	if err != nil {
		return model.Driver{}, err
	}
	d.PasswordHash = hash.String
	if phone.Valid {
		d.Phone = &phone.String
	}
	return d, nil
}

// Update rewrites name/email, optionally phone, and rehashes the password
// only when a new hash is supplied.
func (r *DriverRepo) Update(ctx context.Context, id int64, name, email string, phone, passwordHash *string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	sets := []string{"name = ?", "email = ?"}
	args := []interface{}{name, email}
	if phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *phone)
	}
	if passwordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *passwordHash)
	}
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE drivers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
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

// Delete removes a driver. It refuses with ErrConflict while any job still
// references the driver, leaving both sides intact.
func (r *DriverRepo) Delete(ctx context.Context, id int64) error {
	var jobs int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE driver_id = ?", id).Scan(&jobs); err != nil {
		return err
	}
	if jobs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM drivers WHERE id = ?", id)
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
