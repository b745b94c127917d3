package monitor

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
)

// Check probes a single dependency.
type Check func(ctx context.Context) error

var errNotConfigured = errors.New("not configured")

func PostgresCheck(pool *pgxpool.Pool) Check {
	return func(ctx context.Context) error {
		if pool == nil {
			return errNotConfigured
		}
		return pool.Ping(ctx)
	}
}

func RedisCheck(client redislib.UniversalClient) Check {
	return func(ctx context.Context) error {
		if client == nil {
			return errNotConfigured
		}
		return client.Ping(ctx).Err()
	}
}

func SQLiteCheck(db *gorm.DB) Check {
	return func(ctx context.Context) error {
		if db == nil {
			return errNotConfigured
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// BoltCheck reads the bucket size, which fails once the file is closed.
func BoltCheck(store *boltdb.Store, bucket string) Check {
	return func(context.Context) error {
		if store == nil {
			return errNotConfigured
		}
		_, err := store.Size(bucket)
		return err
	}
}
