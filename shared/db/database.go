package db

import (
	"database/sql"
)

// Database is a connection that is opened once at start-up and closed on shutdown
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
