package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storefront-service/internal/activity"
	"storefront-service/internal/api"
	"storefront-service/internal/cache"
	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/handoff"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/migrations"
)

const cacheConsumerGroup = "storefront-cache"

func connectDB(dsn, name string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Info().Msgf("Connected to DB %s", name)
				return db, nil
			}
		}
		log.Warn().Err(err).Msgf("Retry %d: failed to connect to DB %s", i+1, name)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s after retries: %w", name, err)
}

func main() {
	cfg := config.Load()
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := connectDB(cfg.DSN(), cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Database unavailable")
	}
	defer db.Close()

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate storefront tables")
	}
	if err := migrations.SeedProducts(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed products")
	}
	if err := migrations.SeedStats(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed stats")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	orderPublisher := events.NewPublisher(config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic))
	defer orderPublisher.Close()
	activityPublisher := events.NewPublisher(config.NewKafkaWriter(cfg.KafkaBrokers, cfg.ActivityTopic))
	defer activityPublisher.Close()

	repo := repository.NewStorefrontRepository(db)
	catalogCache := cache.NewCatalogCache(rdb, cache.CatalogTTL)

	catalogService := service.NewCatalogService(repo, catalogCache)
	statsService := service.NewStatsService(repo)
	feedbackService := service.NewFeedbackService(repo, cfg.FeedbackAvatarURL)
	checkoutService := service.NewCheckoutService(
		catalogService,
		repo,
		cache.NewSessionStore(rdb, cfg.SessionTTL),
		cache.NewOrderIDGuard(rdb),
		orderPublisher,
		handoff.Builder{
			DiscordTicketURL: cfg.DiscordTicketURL,
			WhatsAppNumber:   cfg.WhatsAppNumber,
			CurrencySymbol:   cfg.CurrencySymbol,
		},
	)

	if err := catalogService.Warm(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Starting with a cold catalog cache")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// consumer
	consumer := events.NewConsumer(config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, cacheConsumerGroup), catalogCache)
	go consumer.Run(ctx)

	var feed api.ActivityFeed
	if cfg.ActivityEnabled {
		f := activity.NewFeed(activity.FeedSize)
		go activity.NewGenerator(f, activityPublisher, statsService).Run(ctx)
		feed = f
	}

	handler := api.NewStorefrontHandler(api.Services{
		Catalog:  catalogService,
		Checkout: checkoutService,
		Stats:    statsService,
		Feedback: feedbackService,
		Activity: feed,
		Checks: map[string]api.Pinger{
			"mysql": repo,
			"redis": api.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
	}, cfg.PaymentQRURL)

	e := api.NewServer(handler, api.ServerConfig{
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		CORSOrigins:    cfg.CORSOrigins,
		AdminJWTSecret: cfg.AdminJWTSecret,
	})
	if cfg.AdminJWTSecret == "" {
		log.Info().Msg("ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
}
