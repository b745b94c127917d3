package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	sqliteInfra "github.com/fastygo/taskboard/internal/infrastructure/sqlite"
	"github.com/fastygo/taskboard/internal/services/janitor"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	"github.com/fastygo/taskboard/repository/postgres"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	sqliteRepo "github.com/fastygo/taskboard/repository/sqlite"
)

// Closer releases a resource during shutdown.
type Closer struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Storage bundles the repositories of one driver with its health checks
// and the resources to release on shutdown, in opening order.
type Storage struct {
	Users      repository.UserRepository
	Sessions   repository.SessionRepository
	Categories repository.CategoryRepository
	Tasks      repository.TaskRepository

	Checks  map[string]monitor.Check
	Janitor *janitor.SessionJanitor
	Closers []Closer
}

// Close runs every closer in reverse order.
func (s *Storage) Close(ctx context.Context) error {
	var first error
	for i := len(s.Closers) - 1; i >= 0; i-- {
		if err := s.Closers[i].Fn(ctx); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", s.Closers[i].Name, err)
		}
	}
	return first
}

// OpenStorage connects the stack selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if err := pgInfra.RunMigrations(ctx, cfg, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	s := &Storage{}
	s.Closers = append(s.Closers, Closer{Name: "postgres", Fn: func(context.Context) error {
		pgInfra.Close(pool, logger)
		return nil
	}})

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("redis: %w", err)
	}
	s.Closers = append(s.Closers, Closer{Name: "redis", Fn: func(context.Context) error {
		return redisClient.Close()
	}})

	s.Users = postgres.NewUserRepository(pool)
	s.Categories = postgres.NewCategoryRepository(pool)
	s.Tasks = postgres.NewTaskRepository(pool)
	s.Sessions = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	s.Checks = map[string]monitor.Check{
		"postgresql": monitor.PostgresCheck(pool),
		"redis":      monitor.RedisCheck(redisClient),
	}
	return s, nil
}

func openSQLite(cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	db, err := sqliteInfra.Open(cfg.SQLite.Path, logger)
	if err != nil {
		return nil, err
	}
	s := &Storage{}
	s.Closers = append(s.Closers, Closer{Name: "sqlite", Fn: func(context.Context) error {
		return sqliteInfra.Close(db)
	}})

	if err := sqliteRepo.AutoMigrate(db); err != nil {
		_ = s.Close(context.Background())
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}

	store, err := boltdb.Open(cfg.Session.BoltPath, boltRepo.SessionBucket)
	if err != nil {
		_ = s.Close(context.Background())
		return nil, fmt.Errorf("boltdb: %w", err)
	}
	s.Closers = append(s.Closers, Closer{Name: "boltdb", Fn: func(context.Context) error {
		return store.Close()
	}})

	sessions := boltRepo.NewSessionRepository(store, cfg.Session.TTL)
	sweeper, err := janitor.NewSessionJanitor(sessions, logger.Named("janitor"), janitor.Config{
		Interval: cfg.Session.SweepInterval,
	})
	if err != nil {
		_ = s.Close(context.Background())
		return nil, err
	}

	s.Users = sqliteRepo.NewUserRepository(db)
	s.Categories = sqliteRepo.NewCategoryRepository(db)
	s.Tasks = sqliteRepo.NewTaskRepository(db)
	s.Sessions = sessions
	s.Janitor = sweeper
	s.Checks = map[string]monitor.Check{
		"sqlite":   monitor.SQLiteCheck(db),
		"sessions": monitor.BoltCheck(store, boltRepo.SessionBucket),
	}
	return s, nil
}
