package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("サーバーが異常終了しました", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	// .env がなくてもエラーにしない
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(".env の読み込みに失敗: %w", err)
	}

	cfg := config.Load()
	logger.Set(logger.NewLoggerWithFile(cfg.Env, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}))
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		return err
	}
	logger.Info("データベースに接続しました", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// Redis はキャッシュとロックにだけ使うので、繋がらなくても起動する
	var (
		redisClient *redis.Client
		cache       application.CatalogCache
		lockManager *redisinfra.LockManager
	)
	redisClient, err = redisinfra.NewClient(redisinfra.FromConfig(cfg.Redis))
	if err != nil {
		logger.Warn("Redisに接続できません。キャッシュとロックなしで起動します", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache = redisinfra.NewSeatCache(redisClient)
		lockManager = redisinfra.NewLockManager(redisClient)
	}

	// サービス
	ledger := postgres.NewBookingLedger(db)
	directory := postgres.NewShowTimeDirectory(db)
	catalog := application.NewSeatCatalogService(postgres.NewSeatCatalog(db), cache, cfg.Booking.CatalogCacheTTL)
	resolver := application.NewSeatAvailabilityResolver(catalog, ledger)
	history := application.NewBookingHistoryView(ledger, catalog, directory)
	bookingService := application.NewBookingService(ledger, catalog, directory, resolver, history, lockManager, application.LockOptions{
		TTL:        cfg.Booking.LockTTL,
		Retries:    cfg.Booking.LockRetries,
		RetryDelay: cfg.Booking.LockRetryDelay,
	})

	// ハンドラー
	checks := map[string]handler.HealthChecker{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) }
	}
	healthHandler := handler.NewHealthHandler(checks)
	seatHandler := handler.NewSeatHandler(bookingService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e, m)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(middleware.LoadMetricsConfig()))

	v1 := e.Group("/api/v1")
	v1.GET("/seats", seatHandler.List)
	v1.GET("/showtimes/:show_time_id/seats", seatHandler.Status)

	authed := v1.Group("", middleware.RequireIdentity())
	authed.POST("/showtimes/:show_time_id/bookings", bookingHandler.Create)
	authed.GET("/bookings", bookingHandler.History)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバーを起動します", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバー起動エラー: %w", err)
		}
		return nil
	})

	if cache != nil {
		refresher := worker.NewCatalogCacheRefresher(catalog, cfg.Booking.CatalogRefreshInterval)
		g.Go(func() error {
			refresher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("サーバーをシャットダウンしています...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
		}
		logger.Info("サーバーが正常にシャットダウンしました")
		return nil
	})

	return g.Wait()
}
