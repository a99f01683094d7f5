package http

import (
	"net/http"

	"premium-backend/internal/handlers"
	"premium-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	saleHandler *handlers.SaleHandler,
	paymentHandler *handlers.PaymentHandler,
	debtHandler *handlers.DebtHandler,
	cashLedgerHandler *handlers.CashLedgerHandler,
	stockHandler *handlers.StockHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics (no auth, skipped by request logging)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireAdmin)
	usersAPI.HandleFunc("", authHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", authHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}/active", authHandler.SetActive).Methods("PATCH")

	// Protected API routes - current user
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/search", customerHandler.SearchByPhone).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(customerHandler.DeleteCustomer)).ServeHTTP).Methods("DELETE")
	customersAPI.HandleFunc("/{id}/debts", customerHandler.GetCustomerDebts).Methods("GET")
	customersAPI.HandleFunc("/{id}/payments", paymentHandler.PayCustomer).Methods("POST")
	customersAPI.HandleFunc("/{id}/statement", reportHandler.GetCustomerStatement).Methods("GET")

	// Protected API routes - Checkout and sales
	salesAPI := r.PathPrefix("/api/sales").Subrouter()
	salesAPI.Use(authMiddleware.Authenticate)
	salesAPI.HandleFunc("", saleHandler.ListSales).Methods("GET")
	salesAPI.HandleFunc("/checkout", saleHandler.CreateCheckout).Methods("POST")
	salesAPI.HandleFunc("/{id}", saleHandler.GetSale).Methods("GET")

	// Protected API routes - Receipts
	receiptsAPI := r.PathPrefix("/api/receipts").Subrouter()
	receiptsAPI.Use(authMiddleware.Authenticate)
	receiptsAPI.HandleFunc("/{receiptNumber}", saleHandler.GetReceipt).Methods("GET")
	receiptsAPI.HandleFunc("/{receiptNumber}/debts", debtHandler.GetReceiptDebts).Methods("GET")
	receiptsAPI.HandleFunc("/{receiptNumber}/payments", paymentHandler.PayReceipt).Methods("POST")

	// Protected API routes - Debts
	debtsAPI := r.PathPrefix("/api/debts").Subrouter()
	debtsAPI.Use(authMiddleware.Authenticate)
	debtsAPI.HandleFunc("", debtHandler.ListDebts).Methods("GET")
	debtsAPI.HandleFunc("/overdue", debtHandler.ListOverdue).Methods("GET")
	debtsAPI.HandleFunc("/promote-overdue", authMiddleware.RequireRole("admin", "accountant")(http.HandlerFunc(debtHandler.PromoteOverdue)).ServeHTTP).Methods("POST")
	debtsAPI.HandleFunc("/{id}", debtHandler.GetDebt).Methods("GET")
	debtsAPI.HandleFunc("/{id}/payments", paymentHandler.PayDebt).Methods("POST")

	// Protected API routes - Debtors dashboards
	debtorsAPI := r.PathPrefix("/api/debtors").Subrouter()
	debtorsAPI.Use(authMiddleware.Authenticate)
	debtorsAPI.HandleFunc("", debtHandler.GetDebtorSummaries).Methods("GET")
	debtorsAPI.HandleFunc("/receipts", debtHandler.GetReceiptSummaries).Methods("GET")
	debtorsAPI.HandleFunc("/export", reportHandler.GetDebtorsCSV).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.ListPayments).Methods("GET")
	paymentsAPI.HandleFunc("", paymentHandler.ApplyIntent).Methods("POST")
	paymentsAPI.HandleFunc("/operation", paymentHandler.GetOperation).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.GetPayment).Methods("GET")

	// Protected API routes - Cash ledger (accountant surface)
	cashAPI := r.PathPrefix("/api/cash-ledger").Subrouter()
	cashAPI.Use(authMiddleware.RequireRole("admin", "accountant"))
	cashAPI.HandleFunc("", cashLedgerHandler.ListEntries).Methods("GET")
	cashAPI.HandleFunc("", cashLedgerHandler.CreateEntry).Methods("POST")
	cashAPI.HandleFunc("/summary", cashLedgerHandler.GetSummary).Methods("GET")

	// Protected API routes - Stock
	stockAPI := r.PathPrefix("/api/stock").Subrouter()
	stockAPI.Use(authMiddleware.Authenticate)
	stockAPI.HandleFunc("/batches", stockHandler.ListBatches).Methods("GET")
	stockAPI.HandleFunc("/batches", stockHandler.RecordBatch).Methods("POST")
	stockAPI.HandleFunc("/products/{name}/batches", stockHandler.ListProductBatches).Methods("GET")
	stockAPI.HandleFunc("/valuations", stockHandler.GetValuations).Methods("GET")

	return r
}
