package database

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		phone TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pickup_date TEXT NOT NULL,
		pickup_time TEXT NOT NULL,
		flight_number TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		driver_id INTEGER REFERENCES drivers(id),
		number_of_passengers INTEGER DEFAULT 1,
		driver_picked_up_at DATETIME,
		driver_dropped_off_at DATETIME,
		status TEXT DEFAULT 'Unassigned' CHECK(status IN ('Assigned','Unassigned')),
		is_recurring INTEGER DEFAULT 0,
		recurrence_frequency TEXT,
		recurrence_count INTEGER DEFAULT 12,
		flight_status TEXT,
		flight_status_updated_at DATETIME,
		flight_status_data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		type TEXT DEFAULT 'other' CHECK(type IN ('airport','hotel','other'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_flight_number ON jobs(flight_number)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_pickup_date ON jobs(pickup_date)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		pickup_date TEXT NOT NULL,
		pickup_time TEXT NOT NULL,
		flight_number TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		driver_id BIGINT REFERENCES drivers(id),
		number_of_passengers INTEGER DEFAULT 1,
		driver_picked_up_at TIMESTAMPTZ,
		driver_dropped_off_at TIMESTAMPTZ,
		status TEXT DEFAULT 'Unassigned' CHECK(status IN ('Assigned','Unassigned')),
		is_recurring BOOLEAN DEFAULT FALSE,
		recurrence_frequency TEXT,
		recurrence_count INTEGER DEFAULT 12,
		flight_status TEXT,
		flight_status_updated_at TIMESTAMPTZ,
		flight_status_data TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		type TEXT DEFAULT 'other' CHECK(type IN ('airport','hotel','other'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_flight_number ON jobs(flight_number)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_pickup_date ON jobs(pickup_date)`,
}

// InitSchema creates the tables for the active backend and seeds the
// default management login plus a handful of starter locations. It is
// idempotent and safe to run on every boot.
func (d *DB) InitSchema(ctx context.Context, bcryptCost int) error {
	schema := sqliteSchema
	if d.driver == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return d.seed(ctx, bcryptCost)
}

func (d *DB) seed(ctx context.Context, bcryptCost int) error {
	// Default management login (admin@transport.com / admin123). The email
	// unique constraint makes the insert a no-op on subsequent boots.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	if err != nil {
		return err
	}
	adminInsert := `INSERT OR IGNORE INTO drivers (name, email, password_hash, phone) VALUES (?,?,?,?)`
	if d.driver == DriverPostgres {
		adminInsert = `INSERT INTO drivers (name, email, password_hash, phone) VALUES (?,?,?,?) ON CONFLICT (email) DO NOTHING`
	}
	if _, err := d.ExecContext(ctx, adminInsert, "Admin User", "admin@transport.com", string(hash), "555-0000"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Starter locations, only on an empty table (no unique key to lean on).
	var count int
	if err := d.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	if count > 0 {
		return nil
	}
	seedLocations := [][3]string{
		{"Airport Terminal 1", "123 Airport Blvd", "airport"},
		{"Airport Terminal 2", "456 Airport Blvd", "airport"},
		{"Downtown Hotel", "789 Main St", "hotel"},
		{"Crew Quarters", "321 Crew Ave", "other"},
	}
	for _, loc := range seedLocations {
		if _, err := d.ExecContext(ctx,
			"INSERT INTO locations (name, address, type) VALUES (?,?,?)",
			loc[0], loc[1], loc[2]); err != nil {
			return fmt.Errorf("seed locations: %w", err)
		}
	}
	return nil
}
