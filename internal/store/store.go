package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// PostgreSQL through database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

// Open connects to the database named by dsn and migrates the schema.
// A dsn starting with postgres:// or postgresql:// selects PostgreSQL;
// anything else is a SQLite path or URI.
func Open(dsn string) (*Store, error) {
	return OpenContext(context.Background(), dsn)
}

// OpenContext is Open with a context for the migration.
func OpenContext(ctx context.Context, dsn string) (*Store, error) {
	driverName, dialectName := "sqlite", dialect.SQLite
	if IsPostgresDSN(dsn) {
		driverName, dialectName = "pgx", dialect.Postgres
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialectName == dialect.SQLite {
		// Pragmas are per connection; keep exactly one so they stick and
		// in-memory databases survive between queries.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	} else if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := migrate(ctx, entsql.OpenDB(dialectName, db)); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: dialectName, seq: seq}, nil
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name, dialect.SQLite or dialect.Postgres.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// KVRepo returns a KVRepo backed by this store.
func (s *Store) KVRepo() KVRepo {
	return &kvRepo{db: s.db, b: entsql.Dialect(s.dialect)}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, b: entsql.Dialect(s.dialect), seq: s.seq}
}

// Reset deletes every stored key and event. The global sequence keeps
// counting so events recorded afterwards still sort after older exports.
func (s *Store) Reset(ctx context.Context) error {
	b := entsql.Dialect(s.dialect)
	for _, t := range Tables {
		query, args := b.Delete(t.Name).Query()
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reset %s: %w", t.Name, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database location in priority order:
// 1. NUMINARY_DB environment variable (a path or a postgres:// DSN)
// 2. $XDG_DATA_HOME/numinary/numinary.db
// 3. ~/.local/share/numinary/numinary.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NUMINARY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "numinary", "numinary.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a SQLite path. DSNs for
// PostgreSQL and SQLite URIs are left alone.
func EnsureDir(path string) error {
	if IsPostgresDSN(path) || strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
