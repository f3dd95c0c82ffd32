package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/app"
	"github.com/lotuss-academy/lms-admin/internal/cache"
	"github.com/lotuss-academy/lms-admin/internal/config"
	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/jobs"
	"github.com/lotuss-academy/lms-admin/internal/logging"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/observability"
	"github.com/lotuss-academy/lms-admin/internal/stats"
)

const redisPingInterval = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lmsDB, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		logger.Fatal("lms database", zap.Error(err))
	}
	defer func() { _ = lmsDB.Close() }()

	tescoDB, err := db.Open(ctx, cfg.TescoDatabaseURL, cfg.DBPoolSize)
	if err != nil {
		logger.Fatal("tesco database", zap.Error(err))
	}
	defer func() { _ = tescoDB.Close() }()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, lmsDB); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	rc := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	}, logger)
	defer func() { _ = rc.Close() }()

	aggregator := stats.New(lmsDB, tescoDB, rc, cfg.Location, logger)

	views, err := app.LoadViews()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	srv := app.NewServer(app.Deps{
		Config:   cfg,
		LMS:      lmsDB,
		Tesco:    tescoDB,
		Cache:    rc,
		Stats:    aggregator,
		Log:      logger,
		Sessions: app.NewSessionStore(cfg),
		Views:    views,
	})

	runner := jobs.New(ctx, logger)
	runner.Now(redisPingInterval, "redis_ping", rc.Ping)
	runner.Every(cfg.WarmInterval, "dashboard_warm", func(ctx context.Context) error {
		year := time.Now().In(cfg.Location).Year()
		return aggregator.Warm(ctx, year, models.CompanyLotus, models.CompanyMakro)
	})

	httpSrv := app.StartHTTP(ctx, cfg.HTTPAddr, srv.Routes(), logger)
	logger.Info("lms admin started", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))

	<-ctx.Done()
	logger.Info("shutting down")
	httpSrv.Wait()
	runner.Wait()
}
