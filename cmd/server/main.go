// Command server runs the property search and comparable-matching API.
// main wires high-level dependencies and keeps the server lifecycle small;
// business logic lives in the internal services packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"taxprotest/internal/comparables"
	"taxprotest/internal/comparables/cache"
	comphandler "taxprotest/internal/comparables/handler"
	compmetrics "taxprotest/internal/comparables/metrics"
	compstore "taxprotest/internal/comparables/store"
	httpapi "taxprotest/internal/http"
	"taxprotest/internal/platform/config"
	"taxprotest/internal/platform/httpserver"
	"taxprotest/internal/platform/logger"
	"taxprotest/internal/platform/metrics"
	redisplatform "taxprotest/internal/platform/redis"
	"taxprotest/internal/properties"
	prophandler "taxprotest/internal/properties/handler"
	propstore "taxprotest/internal/properties/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := compstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	compRepo, err := compstore.NewFromDriver(cfg.DBDriver, db)
	if err != nil {
		return err
	}
	var propRepo properties.Store
	if cfg.DBDriver == "pgx" {
		propRepo = propstore.NewPostgres(db)
	} else {
		propRepo = propstore.NewSQLite(db)
	}

	compCfg := comparables.DefaultConfig()
	if cfg.ComparablesConfigPath != "" {
		compCfg, err = comparables.LoadConfigFromFile(cfg.ComparablesConfigPath)
		if err != nil {
			return err
		}
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	var resultCache comparables.ResultCache
	if redisClient != nil {
		resultCache = cache.NewRedis(redisClient.Client, cfg.Redis.TTL)
		log.Info("result cache using redis", "ttl", cfg.Redis.TTL)
	} else {
		resultCache = cache.NewLRU(compCfg.CacheSize)
		log.Info("result cache in-process", "capacity", compCfg.CacheSize)
	}

	compService := comparables.NewService(compRepo, compCfg, resultCache, compmetrics.New(), log)
	propService := properties.NewService(propRepo, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:  log,
		Metrics: metrics.New(),
		DB:      db,
		Redis:   redisClient,
		Handlers: []httpapi.Registrar{
			comphandler.New(compService, log),
			prophandler.New(propService, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
