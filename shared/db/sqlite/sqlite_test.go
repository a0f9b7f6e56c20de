package sqlite

import (
	"path/filepath"
	"testing"
)

func connectTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestNewSQLiteDB(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "explicit path",
			path: "/tmp/test.db",
			want: "/tmp/test.db",
		},
		{
			name: "default path",
			want: DefaultPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := NewSQLiteDB(&SQLiteConfig{Path: tt.path})
			if database.Path() != tt.want {
				t.Errorf("Path() = %v, want %v", database.Path(), tt.want)
			}
		})
	}
}

func TestSQLiteDB_Connect(t *testing.T) {
	database := connectTestDB(t)

	if database.DB() == nil {
		t.Error("DB() returned nil after Connect()")
	}

	if err := database.Connect(); err == nil {
		t.Error("Connect() should return error when already connected")
	}
}

func TestSQLiteDB_Close(t *testing.T) {
	database := NewSQLiteDB(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})

	if err := database.Close(); err != nil {
		t.Errorf("Close() without Connect() error = %v", err)
	}

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if database.DB() != nil {
		t.Error("DB() should return nil after Close()")
	}
}

func TestSQLiteDB_PragmasApplied(t *testing.T) {
	database := connectTestDB(t)
	sqlDB := database.DB()

	var journalMode string
	if err := sqlDB.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to read journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
	}

	var busyTimeout int
	if err := sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("Failed to read busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}
}

func TestSQLiteDB_DataSurvivesReconnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	_, err := database.DB().Exec("INSERT INTO images (id, name, format, size) VALUES (?, ?, ?, ?)", 1, "cat", "png", 1024)
	if err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}
	database.Close()

	database = NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	var name string
	if err := database.DB().QueryRow("SELECT name FROM images WHERE id = ?", 1).Scan(&name); err != nil {
		t.Fatalf("Failed to query image: %v", err)
	}
	if name != "cat" {
		t.Errorf("name = %q, want %q", name, "cat")
	}
}
