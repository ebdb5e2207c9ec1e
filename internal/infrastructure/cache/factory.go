package cache

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Driver names accepted by cache.driver
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

type factoryOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// Option configures NewFromConfig
type Option func(*factoryOptions)

// WithLogger sets the logger used to report the selected driver
func WithLogger(logger *zap.Logger) Option {
	return func(o *factoryOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to a
// MemoryCache. Enabled by default.
func WithInMemoryFallback(allow bool) Option {
	return func(o *factoryOptions) {
		o.allowInMemoryFallback = allow
	}
}

// NewFromConfig builds the Cache selected by cfg.Cache.Driver
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (Cache, error) {
	o := factoryOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	memory := func() Cache {
		return NewMemoryCache(cfg.Cache.DefaultTTL, cfg.Cache.MaxEntries)
	}

	switch cfg.Cache.Driver {
	case DriverNone:
		o.logger.Info("cache disabled")
		return NoopCache{}, nil
	case DriverRedis:
		client, err := DialRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			o.logger.Info("using Redis cache", zap.String("addr", cfg.Redis.Addr()))
			return NewRedisCache(client, cfg.Cache.KeyPrefix, cfg.Cache.DefaultTTL), nil
		}
		if !o.allowInMemoryFallback {
			return nil, fmt.Errorf("redis cache unavailable: %w", err)
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
			"Cached reports and revoked tokens are not shared between instances.",
			zap.Error(err),
		)
		return memory(), nil
	case DriverMemory, "":
		o.logger.Info("using in-memory cache")
		return memory(), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
