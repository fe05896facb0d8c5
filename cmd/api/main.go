package main

import (
	"context"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/cache"
	"github.com/Mizanur7464/home-depot/infrastructure/database/postgres"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/apify"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/apifyclient"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/scraper"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/whop/whopclient"
	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/api"
	"github.com/Mizanur7464/home-depot/internal/api/handler"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/internal/scheduler"
	"github.com/Mizanur7464/home-depot/internal/usecases/authenticating"
	"github.com/Mizanur7464/home-depot/internal/usecases/dealing"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	dealRepo := repository.NewDealRepository(pgConn)
	categoryRepo := repository.NewCategoryRepository(pgConn)
	logRepo := repository.NewActivityLogRepository(pgConn)

	cacheClient := newCache(cfg)

	apifyService := apify.New(cfg, apifyclient.NewClient(cfg), logRepo)
	scraperService := scraper.New()

	membershipClient := whopclient.NewClient(cfg)
	authenticator := authenticating.NewService(membershipClient, logRepo, cfg)

	dealService := dealing.NewService(dealRepo, cacheClient)

	refreshService := scheduler.NewDealRefreshService(
		apifyService,
		scraperService,
		dealRepo,
		logRepo,
		cacheClient,
		cfg,
	)

	if err := refreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start deal refresh scheduler")
	} else {
		logrus.Info("Deal refresh scheduler started")
	}

	server, err := api.New(
		cfg,
		dealService,
		authenticator,
		handler.AdminServices{
			RefreshService: refreshService,
			DealRepo:       dealRepo,
			CategoryRepo:   categoryRepo,
			LogRepo:        logRepo,
		},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}

// newCache falls back to a no-op cache so the service runs without Redis,
// just slower.
func newCache(cfg *config.Config) cache.Cache {
	if cfg.Redis.URL == "" {
		logrus.Warn("Redis not configured, running without cache")
		return cache.Noop{}
	}

	cacheClient, err := cache.New(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Failed to configure Redis, running without cache")
		return cache.Noop{}
	}

	return cacheClient
}
