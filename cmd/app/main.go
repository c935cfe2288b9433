package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/skyaid/airambulance/config"
	"github.com/skyaid/airambulance/internal/bootstrap"
	"github.com/skyaid/airambulance/internal/cache"
	"github.com/skyaid/airambulance/internal/kafka"
	"github.com/skyaid/airambulance/internal/notify"
	"github.com/skyaid/airambulance/internal/repository"
	"github.com/skyaid/airambulance/internal/service/booking"
	"github.com/skyaid/airambulance/internal/service/dashboard"
	"github.com/skyaid/airambulance/internal/ws"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	statsTTL := time.Duration(cfg.Dashboard.StatsCacheTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, 5*time.Minute, statsTTL)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)

	notifier := notify.NewNotifier(userRepo, producer, cfg.Kafka.NotificationsTopic)
	hub := ws.NewHub()

	bookingService := booking.NewBookingService(bookingRepo, directoryRepo, redisCache, notifier, hub)
	dashboardService := dashboard.NewDashboardService(bookingRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, bookingService, dashboardService, hub); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
