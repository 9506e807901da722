package main

import (
	"log/slog"
	"os"

	"drop_checkout/internal/checkout"
	"drop_checkout/internal/config"
	"drop_checkout/internal/gateway"
	"drop_checkout/internal/mailer"
	"drop_checkout/internal/router"
	"drop_checkout/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}
	orders := store.NewOrderStore(db)
	if err := orders.Migrate(); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	rdb := rd.NewClient(&rd.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	gw := gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	notifier := mailer.NewMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.MailTo)
	svc := checkout.NewService(orders, notifier, cfg.RazorpayKeySecret, logger)

	r := gin.Default()
	router.Setup(r, router.Deps{
		Gateway:    gw,
		Checkout:   svc,
		Store:      orders,
		Redis:      rdb,
		Logger:     logger,
		RateLimit:  cfg.RateLimit,
		RateWindow: cfg.RateWindow,
	})

	logger.Info("server starting", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
