package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fintrack/finance-tracker-backend/internal/api/handlers"
	custommiddleware "github.com/fintrack/finance-tracker-backend/internal/api/middleware"
	"github.com/fintrack/finance-tracker-backend/internal/config"
	"github.com/fintrack/finance-tracker-backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Installment *service.InstallmentService
	Recurring   *service.RecurringService
	Sweep       *service.SweepService
	DCA         *service.DCAService
	Rate        *service.RateService
	Setting     *service.SettingService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svcs.Transaction)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/installment-plan", func(r chi.Router) {
			installmentHandler := handlers.NewInstallmentHandler(svcs.Installment)
			r.Get("/", installmentHandler.ListPlans)
			r.Post("/", installmentHandler.CreatePlan)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", installmentHandler.GetPlan)
				r.Put("/", installmentHandler.UpdatePlan)
				r.Delete("/", installmentHandler.DeletePlan)
				r.Get("/entries", installmentHandler.GetPlanEntries)
			})
		})

		r.Route("/recurring-transaction", func(r chi.Router) {
			recurringHandler := handlers.NewRecurringHandler(svcs.Recurring, svcs.Sweep)
			r.Get("/", recurringHandler.ListTemplates)
			r.Post("/", recurringHandler.CreateTemplate)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", recurringHandler.GetTemplate)
				r.Put("/", recurringHandler.UpdateTemplate)
				r.Delete("/", recurringHandler.DeleteTemplate)
				r.Get("/entries", recurringHandler.GetTemplateEntries)
				r.Post("/pause", recurringHandler.PauseTemplate)
				r.Post("/resume", recurringHandler.ResumeTemplate)
				r.Post("/generate", recurringHandler.GenerateTemplate)
			})
		})

		r.Route("/dca-strategy", func(r chi.Router) {
			dcaHandler := handlers.NewDCAHandler(svcs.DCA)
			r.Get("/", dcaHandler.ListStrategies)
			r.Post("/", dcaHandler.CreateStrategy)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", dcaHandler.GetStrategy)
				r.Put("/", dcaHandler.UpdateStrategy)
				r.Delete("/", dcaHandler.DeleteStrategy)
				r.Get("/aggregates", dcaHandler.Aggregates)
				r.Get("/frequency", dcaHandler.InvestmentFrequency)
				r.Get("/price-comparison", dcaHandler.PriceComparison)
				r.Get("/current-price", dcaHandler.CurrentPrice)
				r.Post("/entry", dcaHandler.CreateEntry)
				r.Put("/entry/{entryUuid}", dcaHandler.UpdateEntry)
				r.Delete("/entry/{entryUuid}", dcaHandler.DeleteEntry)
			})
		})

		r.Route("/exchange-rate", func(r chi.Router) {
			rateHandler := handlers.NewRateHandler(svcs.Rate, svcs.Setting)
			r.Get("/", rateHandler.ResolveRate)
			r.Put("/", rateHandler.SetRate)
			r.Put("/provider-token", rateHandler.SetProviderToken)
		})
	})

	return r
}
