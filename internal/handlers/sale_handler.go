package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"premium-backend/internal/metrics"
	"premium-backend/internal/middleware"
	"premium-backend/internal/models"
	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SaleHandler struct {
	Checkout *services.CheckoutService
}

func NewSaleHandler(checkout *services.CheckoutService) *SaleHandler {
	return &SaleHandler{Checkout: checkout}
}

// CreateCheckout handles POST /checkout
func (h *SaleHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	operatorID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.Checkout.Checkout(r.Context(), &req, operatorID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	metrics.CheckoutsTotal.Inc()
	utils.JSON(w, http.StatusCreated, result)
}

// GetReceipt handles GET /receipts/{receiptNumber}
func (h *SaleHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNumber := mux.Vars(r)["receiptNumber"]

	sales, err := h.Checkout.SaleRepo.ListByReceipt(r.Context(), receiptNumber)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(sales) == 0 {
		utils.Error(w, http.StatusNotFound, "Receipt not found")
		return
	}
	utils.JSON(w, http.StatusOK, sales)
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	if customerID, _ := strconv.Atoi(q.Get("customer_id")); customerID > 0 {
		sales, err := h.Checkout.SaleRepo.ListByCustomer(r.Context(), customerID, limit, offset)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, sales)
		return
	}

	sales, err := h.Checkout.SaleRepo.List(r.Context(), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, sales)
}

// GetSale handles GET /sales/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	sale, err := h.Checkout.SaleRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sale == nil {
		utils.Error(w, http.StatusNotFound, "Sale not found")
		return
	}
	utils.JSON(w, http.StatusOK, sale)
}
