package server

import (
	"context"
	"fmt"

	"github.com/dfryer1193/goimages/images/domain"
	"github.com/dfryer1193/goimages/images/persistence"
	"github.com/dfryer1193/goimages/internal/config"
	"github.com/dfryer1193/goimages/shared/db/gormdb"
	"github.com/dfryer1193/goimages/shared/db/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OpenRepository connects the configured store backend. The returned close
// function releases its connections.
func OpenRepository(ctx context.Context, cfg *config.Config) (domain.ImageRepository, func() error, error) {
	store := cfg.Store

	switch store.Backend {
	case config.BackendSQLite:
		database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: store.SQLitePath})
		if err := database.Connect(); err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", database.Path()).Msg("Connected to sqlite store")
		return persistence.NewImageRepository(database.DB()), database.Close, nil

	case config.BackendGorm:
		database := gormdb.NewGormDB(&gormdb.GormConfig{
			Dialect: store.Gorm.Dialect,
			DSN:     store.Gorm.DSN,
			Debug:   cfg.Debug,
		})
		if err := database.Connect(); err != nil {
			return nil, nil, err
		}

		repo := persistence.NewGormImageRepository(database.Gorm())
		if err := repo.AutoMigrate(); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate images table: %w", err)
		}
		log.Info().Str("dialect", store.Gorm.Dialect).Msg("Connected to gorm store")
		return repo, database.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     store.Redis.Addr,
			Password: store.Redis.Password,
			DB:       store.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", store.Redis.Addr, err)
		}
		log.Info().Str("addr", store.Redis.Addr).Msg("Connected to redis store")
		return persistence.NewRedisImageRepository(client, store.Redis.KeyPrefix), client.Close, nil

	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store, images will not survive a restart")
		return persistence.NewMemoryImageRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", store.Backend)
	}
}
