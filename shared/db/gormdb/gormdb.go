package gormdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dfryer1193/goimages/shared/db"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

var _ db.Database = (*GormDB)(nil)

type GormConfig struct {
	Dialect string
	DSN     string
	// Debug logs every statement gorm runs
	Debug bool
}

// GormDB implements db.Database on top of a gorm connection
type GormDB struct {
	cfg  GormConfig
	gorm *gorm.DB
}

func NewGormDB(cfg *GormConfig) *GormDB {
	return &GormDB{cfg: *cfg}
}

func dialector(cfg GormConfig) (gorm.Dialector, error) {
	switch cfg.Dialect {
	case DialectSQLite, "":
		return sqlite.Open(cfg.DSN), nil
	case DialectPostgres:
		return postgres.Open(cfg.DSN), nil
	case DialectMySQL:
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", cfg.Dialect)
	}
}

// Connect opens the connection described by the config
func (g *GormDB) Connect() error {
	if g.gorm != nil {
		return fmt.Errorf("database already connected")
	}

	d, err := dialector(g.cfg)
	if err != nil {
		return err
	}

	level := logger.Warn
	if g.cfg.Debug {
		level = logger.Info
	}

	gdb, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", g.cfg.Dialect, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	g.gorm = gdb
	return nil
}

// Close closes the underlying connection pool
func (g *GormDB) Close() error {
	if g.gorm == nil {
		return nil
	}

	sqlDB, err := g.gorm.DB()
	g.gorm = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the connection pool behind gorm, or nil when not connected
func (g *GormDB) DB() *sql.DB {
	if g.gorm == nil {
		return nil
	}
	sqlDB, err := g.gorm.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}

// Gorm returns the gorm handle, or nil when not connected
func (g *GormDB) Gorm() *gorm.DB {
	return g.gorm
}
