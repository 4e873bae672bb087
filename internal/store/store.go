package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is stored in PRAGMA user_version. Version 1 adds the
// cache lookup index.
const currentSchemaVersion = 1

// Store is the durable verdict log.
type Store struct {
	db    *sql.DB
	runID RunIDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the run ID generator. Tests use it for deterministic IDs.
func WithIDGenerator(gen RunIDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.runID = gen
		}
	}
}

// Open opens the verdict log at path, creating it if needed, and brings its
// schema up to date. Several CLI runs may share one file: the log uses WAL
// journaling and waits up to five seconds on a locked database.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open verdict log %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, step := range []func(*sql.DB) error{connect, configure, migrate} {
		if err := step(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("open verdict log %s: %w", path, err)
		}
	}

	s := &Store{db: db, runID: UUIDGenerator{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func connect(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
}

func configure(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

// migrate creates the verdicts table and upgrades older logs to
// currentSchemaVersion.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version < 1 {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_verdicts_lookup ON verdicts(program_hash, ptr_size, seq)`); err != nil {
			return fmt.Errorf("add lookup index: %w", err)
		}
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}

// verifyPragma is a test hook.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
