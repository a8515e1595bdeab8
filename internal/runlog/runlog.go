// Package runlog records finished runs to a SQL history table: a single
// *sql.DB behind a mutex, opened against whatever driver the caller's DSN
// names. modernc.org/sqlite backs
// the zero-setup default (a local file, no cgo), while the blank-imported
// mysql/postgres/sqlite3/mssql drivers let an operator point bfvm at a
// shared history store without recompiling it.
package runlog

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DefaultDSN is the local, cgo-free sqlite file in the working directory
// that Open uses when given an empty dsn.
const DefaultDSN = "file:bfvm_runs.db?mode=rwc"

// Record is one finished run, as stored and as read back.
type Record struct {
	ID           string
	Source       string
	StartedAt    time.Time
	Instructions uint64
	ExitErr      string
}

// Store wraps a SQL connection guarded by a mutex; callers never see
// *sql.DB directly.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open connects using driver (inferred from dsn's scheme when empty) and
// ensures the runs table exists.
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = driverForDSN(dsn)
	}
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "runlog: open %s", driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "runlog: ping")
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func driverForDSN(dsn string) string {
	switch {
	case hasPrefix(dsn, "postgres://"), hasPrefix(dsn, "postgresql://"):
		return "postgres"
	case hasPrefix(dsn, "sqlserver://"):
		return "mssql"
	case hasPrefix(dsn, "mysql://"):
		return "mysql"
	default:
		return "sqlite"
	}
}

func hasPrefix(s, p string) bool {
	return len(s) >= len(p) && s[:len(p)] == p
}

func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		instructions INTEGER NOT NULL,
		exit_err TEXT
	)`)
	return errors.Wrap(err, "runlog: migrate")
}

// Insert records a finished run and returns its generated id.
func (s *Store) Insert(source string, startedAt time.Time, instructions uint64, exitErr error) (string, error) {
	id := uuid.NewString()
	errText := ""
	if exitErr != nil {
		errText = exitErr.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO runs (id, source, started_at, instructions, exit_err) VALUES (?, ?, ?, ?, ?)`,
		id, source, startedAt.UTC(), instructions, errText)
	if err != nil {
		return "", errors.Wrap(err, "runlog: insert")
	}
	return id, nil
}

// Recent returns the last n runs, most recent first.
func (s *Store) Recent(n int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT id, source, started_at, instructions, exit_err FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(err, "runlog: query recent")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var exitErr sql.NullString
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.Instructions, &exitErr); err != nil {
			return nil, errors.Wrap(err, "runlog: scan")
		}
		r.ExitErr = exitErr.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
