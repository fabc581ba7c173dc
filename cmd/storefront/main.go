package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/backup"
	"github.com/Scriprto/steal-brainrot-shop/internal/cache"
	"github.com/Scriprto/steal-brainrot-shop/internal/cli"
	"github.com/Scriprto/steal-brainrot-shop/internal/config"
	"github.com/Scriprto/steal-brainrot-shop/internal/repository"
	"github.com/Scriprto/steal-brainrot-shop/internal/seed"
	"github.com/Scriprto/steal-brainrot-shop/internal/service"
)

func main() {
	os.Exit(run())
}

// run wires the storefront and executes the command line, returning the
// process exit code once every resource is closed.
func run() int {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.MustLoad()
	if !cfg.App.Debug {
		log.SetOutput(io.Discard)
	}
	log.Printf("Starting %s %s (%s)", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stateRepo, activityRepo, err := openRepositories(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	defer stateRepo.Close()
	defer activityRepo.Close()

	sessionCache := openCache(cfg)
	defer sessionCache.Close()

	initial, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return fail(err)
	}

	sessions := service.NewSessionStore(sessionCache, cfg.App.Namespace, cfg.Cache.SessionTTL)
	shop, err := service.NewShop(ctx, stateRepo, sessions, service.Options{
		Namespace: cfg.App.Namespace,
		Seed:      initial,
		Activity:  activityRepo,
	})
	if err != nil {
		return fail(err)
	}

	app := &cli.App{
		Shop:           shop,
		BackupInterval: cfg.Backup.Interval,
		Version:        cfg.App.Version,
		Debug:          cfg.App.Debug,
	}
	if cfg.Backup.Enabled() {
		manager, err := openBackups(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		app.Backups = manager
	}

	root := cli.NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		asJSON := root.PersistentFlags().Lookup("output").Value.String() == "json"
		return cli.WriteError(os.Stderr, err, asJSON)
	}
	return 0
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// openRepositories selects the durable record backend from STATE_DB_TYPE.
// The activity log shares the backend's connection.
func openRepositories(ctx context.Context, cfg *config.Config) (repository.StateRepository, repository.ActivityRepository, error) {
	switch cfg.StateDB.Type {
	case "memory":
		log.Println("In-memory state repository initialized (nothing is kept after exit)")
		return repository.NewMemoryStateRepository(), repository.NewMemoryActivityRepository(), nil

	case "mongodb", "mongo":
		mongoRepo, err := repository.NewMongoDBStateRepository(
			cfg.StateDB.MongoURI,
			cfg.StateDB.MongoDatabase,
			cfg.StateDB.MongoCollection,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		activity := repository.NewMongoDBActivityRepository(mongoRepo.Client(), cfg.StateDB.MongoDatabase, cfg.StateDB.MongoCollection+"_activity")
		log.Println("MongoDB state repository initialized")
		return mongoRepo, activity, nil

	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresStateRepository(cfg.StateDB.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		activity, err := repository.NewSQLActivityRepository(ctx, pgRepo.DB(), repository.DialectPostgres)
		if err != nil {
			pgRepo.Close()
			return nil, nil, err
		}
		log.Println("PostgreSQL state repository initialized")
		return pgRepo, activity, nil

	case "mysql":
		myRepo, err := repository.NewMySQLStateRepository(cfg.StateDB.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MySQL: %w", err)
		}
		activity, err := repository.NewSQLActivityRepository(ctx, myRepo.DB(), repository.DialectMySQL)
		if err != nil {
			myRepo.Close()
			return nil, nil, err
		}
		log.Println("MySQL state repository initialized")
		return myRepo, activity, nil

	default: // sqlite
		sqliteRepo, err := repository.NewSQLiteStateRepository(cfg.StateDB.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		activity, err := repository.NewSQLActivityRepository(ctx, sqliteRepo.DB(), repository.DialectSQLite)
		if err != nil {
			sqliteRepo.Close()
			return nil, nil, err
		}
		log.Println("SQLite state repository initialized")
		return sqliteRepo, activity, nil
	}
}

// openCache returns the session cache, falling back to memory when Redis is unreachable.
func openCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddress(),
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.App.Name,
		})
		if err == nil {
			log.Println("Redis session cache initialized")
			return redisCache
		}
		log.Printf("Warning: Redis connection failed, using in-memory sessions: %v", err)
	}
	return cache.NewMemoryCache(time.Minute)
}

func openBackups(ctx context.Context, cfg *config.Config) (*backup.Manager, error) {
	switch cfg.Backup.Driver {
	case "s3":
		store, err := backup.NewS3Store(ctx, backup.S3Config{
			Region:    cfg.Backup.Region,
			Bucket:    cfg.Backup.Bucket,
			Endpoint:  cfg.Backup.Endpoint,
			PathStyle: cfg.Backup.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 backups: %w", err)
		}
		log.Printf("S3 backups initialized (bucket %s)", cfg.Backup.Bucket)
		return backup.NewManager(store, cfg.Backup.Prefix, cfg.App.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown backup driver %q", cfg.Backup.Driver)
	}
}
