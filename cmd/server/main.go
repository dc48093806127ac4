package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/product_api/internal/cache"
	"github.com/Skotchmaster/product_api/internal/config"
	"github.com/Skotchmaster/product_api/internal/events"
	"github.com/Skotchmaster/product_api/internal/handlers"
	"github.com/Skotchmaster/product_api/internal/logging"
	authmw "github.com/Skotchmaster/product_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/product_api/internal/middleware/logging"
	"github.com/Skotchmaster/product_api/internal/search"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/token"
	"github.com/Skotchmaster/product_api/internal/transport"
	httpserver "github.com/Skotchmaster/product_api/internal/transport/http"
	"github.com/Skotchmaster/product_api/pkg/db"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if configuration.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, configuration.DSN())
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var store cache.Store
	if configuration.CACHE_BACKEND == "redis" {
		store, err = cache.NewRedis(configuration.REDIS_ADDR, configuration.REDIS_PASSWORD, configuration.REDIS_DB, configuration.CACHE_TTL)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
	} else {
		store = cache.NewMemory()
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var searchClient *search.Client
	if configuration.ES_URL != "" {
		searchClient, err = search.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD, configuration.ES_INDEX)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	tokens := &token.Service{Secret: []byte(configuration.JWT_SECRET), TTL: configuration.TOKEN_TTL}
	masking := transport.MaskStrategy(configuration.EMAIL_MASKING)

	authService := &service.AuthService{DB: gormDB, Tokens: tokens, Log: logger}
	userService := &service.UserService{DB: gormDB, Cache: store, Log: logger, Producer: producer, Masking: masking}
	productService := &service.ProductService{DB: gormDB, Cache: store, Log: logger, Producer: producer, Search: searchClient}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Auth: authService},
		UserHandler:    &handlers.UserHandler{Users: userService},
		ProductHandler: &handlers.ProductHandler{Products: productService},
		SearchHandler:  &handlers.SearchHandler{Search: searchClient},
		AuthMW:         &authmw.Middleware{Auth: authService},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
