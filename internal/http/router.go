package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localpos/backend/internal/auth"
	creditHandler "github.com/localpos/backend/internal/http/credit"
	customerHandler "github.com/localpos/backend/internal/http/customer"
	dashboardHandler "github.com/localpos/backend/internal/http/dashboard"
	productHandler "github.com/localpos/backend/internal/http/product"
	saleHandler "github.com/localpos/backend/internal/http/sale"
)

func New(
	resolver *auth.Resolver,
	salesV1 *saleHandler.Handler,
	creditV1 *creditHandler.Handler,
	productsV1 *productHandler.Handler,
	customersV1 *customerHandler.Handler,
	dashboardV1 *dashboardHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(resolver.Middleware)

		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			salesV1.Routes(r)
		})

		r.Route("/credit", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			creditV1.Routes(r)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			productsV1.Routes(r)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			customersV1.Routes(r)
		})

		r.Route("/dashboard", dashboardV1.Routes)
	})

	return router
}
