package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomcast/internal/core/ports"
	"roomcast/internal/infrastructure/repositories/memory"
	pgrepo "roomcast/internal/infrastructure/repositories/postgres"
	redisrepo "roomcast/internal/infrastructure/repositories/redis"
	"roomcast/pkg/config"
	"roomcast/pkg/retry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RepositoryFactory owns the record store connection and hands out
// repositories bound to it. A configured store that cannot be reached is
// a startup error; there is no silent fallback to memory.
type RepositoryFactory struct {
	driver      string
	db          *gorm.DB
	redisClient *redis.Client

	users    ports.UserRepository
	rooms    ports.RoomRepository
	denylist ports.TokenDenylist
	memDeny  *memory.MemoryTokenDenylist

	logger *zap.SugaredLogger
}

// NewRepositoryFactory connects to the configured store, retrying with backoff.
func NewRepositoryFactory(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	f := &RepositoryFactory{
		driver: cfg.Store.Driver,
		logger: logger,
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Store.ConnectRetries
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("store connection failed, retrying",
			"driver", f.driver,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
			db, err := pgrepo.Open(ctx, cfg.Store.URL, cfg.Store.PoolSize, logger)
			if errors.Is(err, pgrepo.ErrInvalidDSN) {
				return retry.Permanent(err)
			}
			if err != nil {
				return err
			}
			f.db = db
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		f.users = pgrepo.NewPostgresUserRepository(f.db)
		f.rooms = pgrepo.NewPostgresRoomRepository(f.db)
		f.memDeny = memory.NewMemoryTokenDenylist(time.Minute)
		f.denylist = f.memDeny

	case config.StoreDriverRedis:
		err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
			client, err := redisrepo.NewRedisClient(ctx, cfg.Store.URL, cfg.Store.PoolSize, cfg.Store.ConnectTimeout, logger)
			if errors.Is(err, redisrepo.ErrInvalidURL) {
				return retry.Permanent(err)
			}
			if err != nil {
				return err
			}
			f.redisClient = client
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		f.users = redisrepo.NewRedisUserRepository(f.redisClient)
		f.rooms = redisrepo.NewRedisRoomRepository(f.redisClient)
		f.denylist = redisrepo.NewRedisTokenDenylist(f.redisClient)

	case config.StoreDriverMemory:
		f.users = memory.NewMemoryUserRepository()
		f.rooms = memory.NewMemoryRoomRepository()
		f.memDeny = memory.NewMemoryTokenDenylist(time.Minute)
		f.denylist = f.memDeny

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	logger.Infow("record store ready", "driver", f.driver)
	return f, nil
}

func (f *RepositoryFactory) Driver() string {
	return f.driver
}

func (f *RepositoryFactory) UserRepository() ports.UserRepository {
	return f.users
}

func (f *RepositoryFactory) RoomRepository() ports.RoomRepository {
	return f.rooms
}

func (f *RepositoryFactory) TokenDenylist() ports.TokenDenylist {
	return f.denylist
}

// HealthCheck pings the backing store
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	switch {
	case f.redisClient != nil:
		return f.redisClient.Ping(ctx).Err()
	case f.db != nil:
		return pgrepo.Ping(ctx, f.db)
	}
	return nil
}

// Close releases the store connection
func (f *RepositoryFactory) Close() error {
	if f.memDeny != nil {
		f.memDeny.Close()
	}
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	if f.db != nil {
		return pgrepo.Close(f.db)
	}
	return nil
}
