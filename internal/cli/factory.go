package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/config"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/adapters/redis"
	"github.com/aretw0/moore/pkg/persistence/middleware"
	"github.com/aretw0/moore/pkg/ports"
)

// CreateLogger builds the stderr logger for cfg.LogLevel.
func CreateLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidLogLevel, cfg.LogLevel)
	}
	return logging.New(level), nil
}

// CreateStore builds the snapshot store selected by cfg.Store, wrapped with call logging
// and, when a store key is configured, encryption at rest.
func CreateStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.SnapshotStore, error) {
	store, err := baseStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if cfg.StoreKey != "" {
		keys, err := cfg.StoreKeys()
		if err != nil {
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    keys[0],
			FallbackKeys: keys[1:],
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

func baseStore(ctx context.Context, cfg *config.Config) (ports.SnapshotStore, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return memory.NewStore(), nil
	case config.StoreFile:
		return file.New(cfg.StoreDir), nil
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis store at %s: %w", cfg.Redis.Addr, err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrInvalidStore, cfg.Store)
}

// CreateEngine initializes an engine with standard CLI conventions:
// the configured definition if one is set, the demo automaton otherwise.
func CreateEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...moore.Option) (*moore.Engine, error) {
	store, err := CreateStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []moore.Option{
		moore.WithLogger(logger),
		moore.WithStore(store),
	}
	if cfg.Definition != "" {
		opts = append(opts, moore.WithDefinition(cfg.Definition))
	} else {
		opts = append(opts, moore.WithDefaultGraph())
	}
	opts = append(opts, extra...)

	engine, err := moore.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
