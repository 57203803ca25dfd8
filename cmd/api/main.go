package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/config"
	"github.com/localpos/backend/internal/credit"
	creditStore "github.com/localpos/backend/internal/credit/store"
	"github.com/localpos/backend/internal/customer"
	customerStore "github.com/localpos/backend/internal/customer/store"
	"github.com/localpos/backend/internal/dashboard"
	dashboardStore "github.com/localpos/backend/internal/dashboard/store"
	"github.com/localpos/backend/internal/database"
	posHttp "github.com/localpos/backend/internal/http"
	creditHandler "github.com/localpos/backend/internal/http/credit"
	customerHandler "github.com/localpos/backend/internal/http/customer"
	dashboardHandler "github.com/localpos/backend/internal/http/dashboard"
	productHandler "github.com/localpos/backend/internal/http/product"
	saleHandler "github.com/localpos/backend/internal/http/sale"
	"github.com/localpos/backend/internal/product"
	productStore "github.com/localpos/backend/internal/product/store"
	"github.com/localpos/backend/internal/sale"
	saleStore "github.com/localpos/backend/internal/sale/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		productService  = product.NewService(productStore.New(db))
		customerService = customer.NewService(customerStore.New(db))
		creditService   = credit.NewService(creditStore.New(db))
		saleService     = sale.NewService(saleStore.New(db), cfg.Sale.TaxRate)
		dashService     = dashboard.NewService(dashboardStore.New(db), productService)
	)

	resolver := auth.NewResolver(cfg.Auth.JWTSecret)

	router := posHttp.New(
		resolver,
		saleHandler.NewHandler(saleService),
		creditHandler.NewHandler(creditService),
		productHandler.NewHandler(productService),
		customerHandler.NewHandler(customerService),
		dashboardHandler.NewHandler(dashService),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
