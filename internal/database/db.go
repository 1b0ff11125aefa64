package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB is the storage handle passed into every repository at startup. It
// carries the driver name so queries written with '?' placeholders work
// against both backends, and so inserts can retrieve generated ids the
// way each backend requires.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the selected backend and verifies the connection.
// A non-empty postgresURL selects Postgres; otherwise a local SQLite file
// at sqlitePath is opened with foreign keys enforced.
func Open(postgresURL, sqlitePath string) (*DB, error) {
	driver := DriverSQLite
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", sqlitePath)
	if postgresURL != "" {
		driver = DriverPostgres
		dsn = postgresURL
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn: conn, driver: driver}, nil
}

// Driver reports which backend the handle was opened with.
func (d *DB) Driver() string { return d.driver }

// Close releases the underlying connection pool.
func (d *DB) Close() error { return d.conn.Close() }

// Rebind converts '?' placeholders to the $N form Postgres expects.
// Repository queries are all written with '?'.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.conn.ExecContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.conn.QueryContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.conn.QueryRowContext(ctx, d.Rebind(query), args...)
}

// InsertID runs an INSERT and returns the generated id. SQLite reports it
// via LastInsertId; Postgres needs a RETURNING clause.
func (d *DB) InsertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if d.driver == DriverPostgres {
		var id int64
		err := d.conn.QueryRowContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// BeginTx starts a transaction sharing the handle's rebinding behavior.
func (d *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: d}, nil
}

// Tx wraps sql.Tx with the same placeholder handling as DB.
type Tx struct {
	tx *sql.Tx
	db *DB
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.db.Rebind(query), args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.db.Rebind(query), args...)
}

// InsertID mirrors DB.InsertID inside the transaction.
func (t *Tx) InsertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if t.db.driver == DriverPostgres {
		var id int64
		err := t.tx.QueryRowContext(ctx, t.db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }
