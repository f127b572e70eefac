package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fintrack/finance-tracker-backend/internal/api"
	"github.com/fintrack/finance-tracker-backend/internal/config"
	"github.com/fintrack/finance-tracker-backend/internal/database"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
	"github.com/fintrack/finance-tracker-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	dcaRepo := repository.NewDCARepository(db)
	rateRepo := repository.NewRateRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	rateService := service.NewRateService(rateRepo)
	settingService, err := service.NewSettingService(settingRepo, cfg.Settings.FernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}
	transactionService := service.NewTransactionService(db, transactionRepo, installmentRepo)
	installmentService := service.NewInstallmentService(db, installmentRepo, transactionRepo)
	recurringService := service.NewRecurringService(db, recurringRepo, transactionRepo)
	sweepService := service.NewSweepService(recurringService, cfg.Generation.HorizonMonths)
	dcaService := service.NewDCAService(db, dcaRepo, rateService)

	// Catch up generation for templates that came due while the server was
	// down, then keep extending on the configured schedule.
	sweepService.RunLogged(context.Background())

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Generation.SweepSchedule, func() {
		sweepService.RunLogged(context.Background())
	}); err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", cfg.Generation.SweepSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Transaction: transactionService,
		Installment: installmentService,
		Recurring:   recurringService,
		Sweep:       sweepService,
		DCA:         dcaService,
		Rate:        rateService,
		Setting:     settingService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
