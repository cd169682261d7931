// Package db implements the orchestrator's narrow database-backend
// interface, dynamically dispatching to one of two concrete
// implementations selected by db_type: sqlite3 and mysql.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/PhilippHeuer/ghostpp/internal/asyncwork"
)

// Tx is the narrow transaction handle the iptocountry bulk loader and game
// result recorder need.
type Tx interface {
	FromAdd(ipLow, ipHigh uint32, country string) error
	Commit() error
	Rollback() error
}

// Backend is the interface the orchestrator depends on. It never knows
// which concrete implementation is live.
type Backend interface {
	HasError() bool
	GetError() string
	RecoverCallable(item asyncwork.Callable)
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// DB wraps a database/sql handle shared by both the sqlite3 and mysql
// backends; only the DSN construction and driver name differ between them.
type DB struct {
	sqlDB    *sql.DB
	lastErr  error
}

// Open dials the backend named by dbType ("sqlite3" or "mysql"). name,
// user, password, and host are interpreted per-backend: sqlite3 treats
// name as a file path, mysql builds a DSN from all four.
func Open(dbType, name, user, password, host string) (*DB, error) {
	switch dbType {
	case "sqlite3":
		return openSQLite(name)
	case "mysql":
		return openMySQL(name, user, password, host)
	default:
		return nil, fmt.Errorf("unsupported db_type %q", dbType)
	}
}

func openSQLite(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	d := &DB{sqlDB: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func openMySQL(name, user, password, host string) (*DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, password, host, name)
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql database: %w", err)
	}
	d := &DB{sqlDB: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	host_counter INTEGER PRIMARY KEY,
	map TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER
);
CREATE TABLE IF NOT EXISTS iptocountry (
	ip_from INTEGER NOT NULL,
	ip_to INTEGER NOT NULL,
	country TEXT NOT NULL
);
`

func (d *DB) migrate() error {
	if _, err := d.sqlDB.Exec(schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// HasError reports whether any operation has failed since Open; the
// recorded error is never cleared. The core polls this once every
// iteration and treats a set error as fatal.
func (d *DB) HasError() bool {
	return d.lastErr != nil
}

// GetError returns the text of the last error, or "" if none.
func (d *DB) GetError() string {
	if d.lastErr == nil {
		return ""
	}
	return d.lastErr.Error()
}

// RecoverCallable is the sink callables are drained into by
// asyncwork.Registry.Drain; concrete Callable types type-assert themselves
// out of the interface to collect their own result.
func (d *DB) RecoverCallable(item asyncwork.Callable) {
	if r, ok := item.(interface{ Recover() error }); ok {
		if err := r.Recover(); err != nil {
			d.lastErr = err
		}
	}
}

// Begin starts a transaction for bulk loads (iptocountry) or result writes.
func (d *DB) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		d.lastErr = err
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.sqlDB.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) FromAdd(ipLow, ipHigh uint32, country string) error {
	_, err := t.tx.Exec(`INSERT INTO iptocountry (ip_from, ip_to, country) VALUES (?, ?, ?)`, ipLow, ipHigh, country)
	if err != nil {
		return fmt.Errorf("inserting iptocountry row: %w", err)
	}
	return nil
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }
