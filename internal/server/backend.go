package server

import (
	"context"
	"database/sql"
	"fmt"

	"zenith-pos/internal/config"
	"zenith-pos/internal/database"
	"zenith-pos/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend is the configured store together with the connection it owns.
type Backend struct {
	store.Backend
	db *sql.DB
}

// NewBackend wraps an already opened store that owns no extra resources.
func NewBackend(b store.Backend) *Backend {
	return &Backend{Backend: b}
}

// OpenBackend opens the store selected by STORE_DRIVER. The postgres driver
// runs migrations before the store is used.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return NewBackend(store.NewMemory()), nil

	case config.DriverBolt:
		b, err := store.OpenBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened bolt store", zap.String("path", cfg.Store.BoltPath))
		return NewBackend(b), nil

	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &Backend{Backend: store.NewPostgres(db), db: db}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Close releases the store and any database connection it holds.
func (b *Backend) Close() error {
	err := b.Backend.Close()
	if b.db != nil {
		if dbErr := b.db.Close(); dbErr != nil && err == nil {
			err = dbErr
		}
	}
	return err
}

// OpenRedis connects to Redis when a host is configured. It returns nil, nil
// when Redis is disabled.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
