package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"
)

// SQL driver names accepted by NewSQLiteStore.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig configures a SQLiteStore.
type SQLiteConfig struct {
	// Driver is DriverModernc or DriverMattn.
	// Default: DriverModernc
	Driver string

	// Path is the database file. Parent directories are created.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore keeps the manifest in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	driver    string
	closeOnce sync.Once

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	countStmt  *sql.Stmt
}

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	input_path   TEXT PRIMARY KEY,
	input_hash   TEXT NOT NULL,
	output_path  TEXT NOT NULL,
	output_hash  TEXT NOT NULL,
	run_id       TEXT NOT NULL,
	revision     TEXT NOT NULL DEFAULT '',
	generated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generations_run ON generations(run_id);
`

// NewSQLiteStore opens (creating if needed) the manifest database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, driver: cfg.Driver}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

// dsn builds the connection string; the two drivers spell pragmas
// differently.
func dsn(cfg SQLiteConfig) string {
	ms := cfg.BusyTimeout.Milliseconds()
	if cfg.Driver == DriverMattn {
		return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL", cfg.Path, ms)
	}
	return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)", cfg.Path, ms)
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT input_path, input_hash, output_path, output_hash, run_id, revision, generated_at
		FROM generations WHERE input_path = ?`)
	if err != nil {
		return fmt.Errorf("prepare get: %w", err)
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO generations (input_path, input_hash, output_path, output_hash, run_id, revision, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (input_path) DO UPDATE SET
			input_hash = excluded.input_hash,
			output_path = excluded.output_path,
			output_hash = excluded.output_hash,
			run_id = excluded.run_id,
			revision = excluded.revision,
			generated_at = excluded.generated_at`)
	if err != nil {
		return fmt.Errorf("prepare put: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM generations WHERE input_path = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM generations`)
	if err != nil {
		return fmt.Errorf("prepare count: %w", err)
	}
	return nil
}

// Driver returns the SQL driver in use.
func (s *SQLiteStore) Driver() string {
	return s.driver
}

func (s *SQLiteStore) Get(ctx context.Context, inputPath string) (*Entry, error) {
	var (
		e  Entry
		ts int64
	)
	err := s.getStmt.QueryRowContext(ctx, inputPath).Scan(
		&e.InputPath, &e.InputHash, &e.OutputPath, &e.OutputHash, &e.RunID, &e.Revision, &ts,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry for %s: %w", inputPath, err)
	}
	e.GeneratedAt = time.Unix(0, ts).UTC()
	return &e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	if e.GeneratedAt.IsZero() {
		e.GeneratedAt = time.Now()
	}
	_, err := s.putStmt.ExecContext(ctx,
		e.InputPath, e.InputHash, e.OutputPath, e.OutputHash, e.RunID, e.Revision, e.GeneratedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry for %s: %w", e.InputPath, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, inputPath string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, inputPath); err != nil {
		return fmt.Errorf("failed to delete entry for %s: %w", inputPath, err)
	}
	return nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Close releases the prepared statements and the database.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.getStmt, s.putStmt, s.deleteStmt, s.countStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}
