package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sweet-treats/internal/catalog"
	"sweet-treats/internal/checkout"
	"sweet-treats/internal/config"
	"sweet-treats/internal/feed"
	"sweet-treats/internal/fingerprint"
	"sweet-treats/internal/logger"
	"sweet-treats/internal/scheduler"
	"sweet-treats/internal/server"
	"sweet-treats/internal/service"
	"sweet-treats/internal/session"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, stopBackground context.CancelFunc, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Stop the refresh scheduler and session pruning first, then drain
	// in-flight requests.
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("feed_url", cfg.Feed.URL),
	)

	// Catalog pipeline: fetcher -> loader -> store, with the fingerprint of
	// the last applied feed persisted across restarts.
	fetcher := feed.NewFetcher(cfg.Feed.URL, cfg.Feed.FetchTimeout)
	store := catalog.NewStore()
	fpCache := fingerprint.New(cfg.Feed.FingerprintPath)
	loader := catalog.NewLoader(fetcher, store, cfg.Feed.Scheme, fpCache, log)

	sessions := session.NewManager(cfg.Shipping, cfg.Session.TTL)
	receipts := checkout.NewBuilder(
		cfg.Checkout.ShopName,
		cfg.Checkout.Currency,
		cfg.Checkout.MessengerURL,
		cfg.Checkout.Timezone,
	)

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	sched := scheduler.New(scheduler.Intervals{
		Active:    cfg.Refresh.ActiveInterval,
		Idle:      cfg.Refresh.IdleInterval,
		IdleAfter: cfg.Refresh.IdleAfter,
	}, func(ctx context.Context) {
		loader.Load(ctx, false)
	}, log)

	svc := service.NewStorefrontService(store, loader, sessions, sched, receipts, cfg.Shipping, log)

	// First load retries with exponential backoff so a brief feed outage at
	// boot doesn't leave the shop without a menu any longer than necessary.
	initialLoad := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(2*time.Minute),
	), backgroundCtx)
	err = backoff.Retry(func() error {
		res := loader.Load(backgroundCtx, true)
		if res.Outcome == catalog.OutcomeUnavailable {
			return res.Err
		}
		return nil
	}, initialLoad)
	if err != nil {
		log.Warn("Catalog still unavailable after initial load attempts; will keep retrying on schedule", zap.Error(err))
	}

	go sched.Run(backgroundCtx)
	go sessions.PruneLoop(backgroundCtx.Done(), cfg.Session.PruneInterval)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info("Rate limiting enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	srv := server.NewServer(cfg, log, svc, sessions, redisClient)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, stopBackground, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
