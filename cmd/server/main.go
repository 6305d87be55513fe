package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Abdul1ayev/greenshop-api/internal/config"
	"github.com/Abdul1ayev/greenshop-api/internal/db"
	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/httpserver"
	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	mw "github.com/Abdul1ayev/greenshop-api/internal/middleware"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/Abdul1ayev/greenshop-api/internal/search"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := repo.AutoMigrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := repo.New(database)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}
	bus := events.NewBus(events.NewHub(), producer)

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			// the database fallback still serves search
			logger.Warn("elasticsearch unavailable, using db search", "error", err)
			searchClient = nil
		}
	}

	cartSvc := &service.CartService{Repo: store, Bus: bus}

	deps := &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:          store,
				JWTSecret:     cfg.JWTSecret,
				AccessTTL:     cfg.AccessTTL,
				RefreshSecret: cfg.RefreshSecret,
				RefreshTTL:    cfg.RefreshTTL,
			},
		},
		Catalog: &httpserver.CatalogHTTP{
			Svc: &service.CatalogService{Repo: store, Search: searchClient},
		},
		Cart: &httpserver.CartHTTP{Svc: cartSvc},
		Checkout: &httpserver.CheckoutHTTP{
			Svc: &service.CheckoutService{Repo: store, Cart: cartSvc, Bus: bus},
		},
		JWTSecret: cfg.JWTSecret,
	}
	httpserver.Register(e, deps)

	go func() {
		logger.Info("starting server", "service", cfg.ServiceName, "port", cfg.ServerPort)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
