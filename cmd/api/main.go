package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-travelplanner/internal/config"
	"backend-travelplanner/internal/db"
	"backend-travelplanner/internal/logging"
	"backend-travelplanner/internal/server"
	"backend-travelplanner/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(config.Config) (*zap.Logger, error)
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, Resources, <-chan os.Signal, ListenFunc) error
}

// Resources are the process-wide collaborators handed to Run.
type Resources struct {
	Log   *zap.Logger
	PG    *pgxpool.Pool
	Redis *redis.Client
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig: config.Load,
		newLogger: func(cfg config.Config) (*zap.Logger, error) {
			return logging.New(cfg.LogLevel, cfg.LogFormat)
		},
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	logger, err := deps.newLogger(cfg)
	if err != nil {
		log.Printf("logger setup failed, falling back to production defaults: %v", err)
		logger = zap.Must(zap.NewProduction())
	}
	defer func() { _ = logger.Sync() }()

	res := Resources{Log: logger}
	if cfg.StoreDriver == config.StorePostgres {
		res.PG, err = deps.connectPostgres(cfg)
		if err != nil {
			logger.Error("postgres connection failed", zap.Error(err))
			return
		}
	}
	res.Redis = deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, res, signals, nil); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// newStore picks the trip store for the configured driver. The memory store
// is the default and lives exactly as long as the process.
func newStore(ctx context.Context, cfg config.Config, pg *pgxpool.Pool) (trip.Store, error) {
	if cfg.StoreDriver != config.StorePostgres {
		return trip.NewMemoryStore(), nil
	}
	if pg == nil {
		return nil, fmt.Errorf("store driver %q needs a postgres pool", cfg.StoreDriver)
	}
	store := trip.NewPGStore(pg)
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate trips: %w", err)
	}
	return store, nil
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, res Resources, signals <-chan os.Signal, listen ListenFunc) error {
	logger := logging.OrNop(res.Log)

	store, err := newStore(ctx, cfg, res.PG)
	if err != nil {
		return err
	}
	srv := server.NewServer(cfg, store, res.Redis, logger)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ServerPort), zap.String("store", cfg.StoreDriver))
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = srv.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if err := srv.Close(); err != nil {
		logger.Warn("stream hub close", zap.Error(err))
	}
	if res.PG != nil {
		res.PG.Close()
	}
	if res.Redis != nil {
		_ = res.Redis.Close()
	}
	logger.Info("server stopped")
	return nil
}
