package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookstore-api/internal/config"
	"bookstore-api/internal/db"
	"bookstore-api/internal/httpserver"
	"bookstore-api/internal/payment"
	bookrepo "bookstore-api/internal/repository/book"
	orderrepo "bookstore-api/internal/repository/order"
	tokenrepo "bookstore-api/internal/repository/token"
	userrepo "bookstore-api/internal/repository/user"
	catalogsvc "bookstore-api/internal/service/catalog"
	checkoutsvc "bookstore-api/internal/service/checkout"
	usersvc "bookstore-api/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	bookRepo := bookrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	cache := catalogsvc.NewCache(bookRepo)
	if err := cache.Refresh(ctx); err != nil {
		logger.Fatalf("prime catalog cache: %v", err)
	}
	logger.Printf("catalog cache primed books=%d", cache.Len())

	catalogService := catalogsvc.New(bookRepo, cache, logger)
	userService := usersvc.New(userRepo, tokenRepo)
	provider := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, cfg.PaymentTimeout, logger)
	checkoutService := checkoutsvc.New(checkoutsvc.NewValidator(cache), provider, orderRepo, cfg.PaymentTimeout, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:     userService,
		CatalogSvc:  catalogService,
		CheckoutSvc: checkoutService,
		Orders:      orderRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
