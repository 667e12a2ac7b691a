package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ozhegov/product-api/internal/config"
	"github.com/ozhegov/product-api/internal/es"
	"github.com/ozhegov/product-api/internal/handlers"
	"github.com/ozhegov/product-api/internal/logging"
	authmw "github.com/ozhegov/product-api/internal/middleware/auth"
	loggingmw "github.com/ozhegov/product-api/internal/middleware/logging"
	"github.com/ozhegov/product-api/internal/mykafka"
	"github.com/ozhegov/product-api/internal/repo"
	"github.com/ozhegov/product-api/internal/service"
	"github.com/ozhegov/product-api/internal/tokens"
	httpserver "github.com/ozhegov/product-api/internal/transport/http"
	"github.com/ozhegov/product-api/pkg/db"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	gdb, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	issuer := tokens.NewIssuer(tokens.Settings{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		AccessTTL: cfg.AccessTokenTTL,
	})

	gormRepo := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:            gormRepo,
		Issuer:          issuer,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc, Producer: prod},
		ProductHandler: &handlers.ProductHandler{Svc: catalogSvc, Producer: prod, ES: esClient, Index: "product"},
		AuthMw:         authmw.New(issuer),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
