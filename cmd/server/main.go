package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"premium-backend/internal/auth"
	"premium-backend/internal/cache"
	"premium-backend/internal/config"
	"premium-backend/internal/database"
	"premium-backend/internal/db"
	"premium-backend/internal/handlers"
	"premium-backend/internal/health"
	h "premium-backend/internal/http"
	"premium-backend/internal/ledger"
	"premium-backend/internal/middleware"
	"premium-backend/internal/repositories"
	"premium-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Cache is optional; a miss on Redis leaves every lookup going to Postgres
	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	customerRepo := repositories.NewCustomerRepository(pool)
	saleRepo := repositories.NewSaleRepository(pool)
	debtRepo := repositories.NewDebtRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	cashLedgerRepo := repositories.NewCashLedgerRepository(pool)
	stockRepo := repositories.NewStockRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// The debt ledger runs on its own transactional store
	ledgerStore := repositories.NewLedgerStore(pool)
	debtLedger := ledger.New(ledgerStore)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	checkoutService := services.NewCheckoutService(saleRepo, customerRepo, debtLedger)
	paymentService := services.NewPaymentService(debtLedger, paymentRepo)
	debtService := services.NewDebtService(debtRepo)
	stockService := services.NewStockService(stockRepo)
	reportService := services.NewReportService(customerRepo, debtRepo, paymentRepo)

	// Handlers
	healthChecker := health.NewHealthChecker(pool)
	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService, debtService)
	saleHandler := handlers.NewSaleHandler(checkoutService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	debtHandler := handlers.NewDebtHandler(debtService)
	cashLedgerHandler := handlers.NewCashLedgerHandler(cashLedgerRepo)
	stockHandler := handlers.NewStockHandler(stockService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		customerHandler,
		saleHandler,
		paymentHandler,
		debtHandler,
		cashLedgerHandler,
		stockHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.RequestLogging(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] Listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
