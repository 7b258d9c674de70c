package progress

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const metaKeyLastLevel = "last_level"

// Store provides durable storage for the progress record.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Load reads the stored record. Load never fails: a read error, a malformed
// row, or an out-of-range value yields the default record instead, so a
// broken save file can never block gameplay.
func (s *Store) Load(ctx context.Context) *Progress {
	p, err := s.load(ctx)
	if err != nil || !p.valid() {
		return Default()
	}
	return p
}

func (s *Store) load(ctx context.Context) (*Progress, error) {
	p := Default()

	rows, err := s.db.QueryContext(ctx, `SELECT level_id FROM unlocked`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		p.Unlocked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	starRows, err := s.db.QueryContext(ctx, `SELECT level_id, best FROM stars`)
	if err != nil {
		return nil, err
	}
	defer starRows.Close()
	for starRows.Next() {
		var id, best int
		if err := starRows.Scan(&id, &best); err != nil {
			return nil, err
		}
		p.Stars[id] = best
	}
	if err := starRows.Err(); err != nil {
		return nil, err
	}

	var last string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaKeyLastLevel).Scan(&last)
	switch err {
	case nil:
		n, err := strconv.Atoi(last)
		if err != nil {
			return nil, err
		}
		p.LastLevel = n
	case sql.ErrNoRows:
		// Fresh database; keep the default.
	default:
		return nil, err
	}
	return p, nil
}

// Save writes the record wholesale inside one transaction. Best-effort: a
// returned error means durability was forgone, and callers should not
// interrupt gameplay over it.
func (s *Store) Save(ctx context.Context, p *Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM unlocked`, `DELETE FROM stars`, `DELETE FROM meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
	}
	for id := range p.Unlocked {
		if _, err := tx.ExecContext(ctx, `INSERT INTO unlocked (level_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
	}
	for id, best := range p.Stars {
		if _, err := tx.ExecContext(ctx, `INSERT INTO stars (level_id, best) VALUES (?, ?)`, id, best); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)`,
		metaKeyLastLevel, strconv.Itoa(p.LastLevel),
	); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Clear restores the default record in storage.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.Save(ctx, Default()); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
