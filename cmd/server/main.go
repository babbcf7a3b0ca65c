package main // Entry point package

import (
	"context" // context bounds the startup migration
	"log"     // log reports fatal startup errors before zap exists
	"time"    // time seeds the booking code generator

	"github.com/joho/godotenv"    // godotenv loads a local .env file when present
	"github.com/labstack/echo/v4" // Echo web framework
	"go.uber.org/zap"             // zap is the structured logger
	"go.uber.org/zap/zapcore"     // zapcore customizes the development encoder

	"github.com/SHOB1KK/ResNet/internal/config"     // environment configuration
	"github.com/SHOB1KK/ResNet/internal/database"   // MySQL connection and migrations
	"github.com/SHOB1KK/ResNet/internal/handler"    // HTTP handlers
	"github.com/SHOB1KK/ResNet/internal/metrics"    // Prometheus counters
	"github.com/SHOB1KK/ResNet/internal/queue"      // booking event consumers
	"github.com/SHOB1KK/ResNet/internal/repository" // data access layer
	"github.com/SHOB1KK/ResNet/internal/router"     // route registration
	"github.com/SHOB1KK/ResNet/internal/service"    // booking engine
)

// newLogger builds the process logger.  Production gets JSON output,
// anything else gets the colored development encoder.
func newLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func main() {
	_ = godotenv.Load() // a missing .env file is fine; env vars may come from the shell

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("failed to run migrations: %v", err)
	}
	cancel()

	// Redis backs the response cache and the rate limiter.  A nil
	// client disables both; the API stays fully functional without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled")
	}

	restaurantRepo := repository.NewRestaurantRepo(db)
	tableRepo := repository.NewTableRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	m := metrics.New("resnet")
	codes := service.NewCodeGenerator(time.Now().UnixNano())
	bookings := service.NewBookingService(tableRepo, bookingRepo, codes, logger, m)

	restaurantHandler := handler.NewRestaurantHandler(restaurantRepo)
	tableHandler := handler.NewTableHandler(tableRepo, bookings)
	bookingHandler := handler.NewBookingHandler(bookings, tableRepo)

	// Background consumers drain the lifecycle queues and append to the
	// booking log.  They reconnect on broker failures.
	go queue.StartBookingConsumer(queue.BookingCreatedQueue, logger)
	go queue.StartBookingConsumer(queue.BookingCancelledQueue, logger)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, restaurantHandler, tableHandler, bookingHandler, rdb)
	router.RegisterStaff(e, restaurantHandler, tableHandler, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("Server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
