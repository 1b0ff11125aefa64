package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aerolift/dispatch/internal/config"
	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/flight"
	"github.com/aerolift/dispatch/internal/handler"
	"github.com/aerolift/dispatch/internal/logger"
	"github.com/aerolift/dispatch/internal/metrics"
	"github.com/aerolift/dispatch/internal/queue"
	"github.com/aerolift/dispatch/internal/refresher"
	"github.com/aerolift/dispatch/internal/repository"
	"github.com/aerolift/dispatch/internal/router"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("open database", "error", err)
	}
	defer db.Close()
	log.Info("database ready", "driver", db.Driver())

	if err := db.InitSchema(ctx, cfg.BcryptCost); err != nil {
		log.Fatal("init schema", "error", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting disabled")
	}

	drivers := &repository.DriverRepo{DB: db}
	jobs := &repository.JobRepo{DB: db}
	locations := &repository.LocationRepo{DB: db}

	m := metrics.New("dispatch")
	flights := flight.NewClient(cfg.FlightAPIBaseURL, cfg.AviationStackKey)

	ref := refresher.New(jobs, flights, log, m,
		cfg.RefreshInterval, cfg.RefreshStartupDelay, cfg.RefreshPause,
		cfg.AviationStackKey != "")
	go ref.Start(ctx)

	go queue.StartJobEventConsumer(ctx, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, drivers),
		Jobs:      handler.NewJobHandler(jobs),
		Drivers:   handler.NewDriverHandler(cfg, drivers, jobs),
		Locations: handler.NewLocationHandler(locations),
		Flights:   handler.NewFlightHandler(jobs, flights),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
