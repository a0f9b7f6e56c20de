package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/dfryer1193/goimages/shared/db"
	_ "modernc.org/sqlite"
)

// DefaultPath is the database file used when no path is configured
const DefaultPath = "./database.db"

var _ db.Database = (*SQLiteDB)(nil)

// pragmas are applied by the driver to every pooled connection, so concurrent
// writers wait on the lock instead of failing with SQLITE_BUSY
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"cache_size(-64000)",
}

type SQLiteConfig struct {
	Path string
}

// SQLiteDB implements the db.Database interface for SQLite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

// NewSQLiteDB creates a new SQLite database instance. An empty path falls back to DefaultPath.
func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	return &SQLiteDB{
		dbPath: path,
	}
}

// Path returns the database file location
func (s *SQLiteDB) Path() string {
	return s.dbPath
}

func (s *SQLiteDB) dsn() string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return s.dbPath + "?" + q.Encode()
}

// Connect opens the database file, creating it if needed, and applies pending migrations
func (s *SQLiteDB) Connect() error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
