package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"premium-backend/internal/middleware"
	"premium-backend/internal/models"
	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// paymentRequest is the body shared by the per-target payment routes
type paymentRequest struct {
	Amount    float64              `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Date      string               `json:"date,omitempty"`
	Reference string               `json:"reference,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

// ApplyIntent handles POST /payments with a full payment intent body
func (h *PaymentHandler) ApplyIntent(w http.ResponseWriter, r *http.Request) {
	var intent models.PaymentIntent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		intent.OperatorID = userID
	}

	result, err := h.Service.ApplyIntent(r.Context(), &intent)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

// PayDebt handles POST /debts/{id}/payments
func (h *PaymentHandler) PayDebt(w http.ResponseWriter, r *http.Request) {
	h.applyTo(w, r, models.PaymentTargetDebt, mux.Vars(r)["id"])
}

// PayReceipt handles POST /receipts/{receiptNumber}/payments
func (h *PaymentHandler) PayReceipt(w http.ResponseWriter, r *http.Request) {
	h.applyTo(w, r, models.PaymentTargetReceipt, mux.Vars(r)["receiptNumber"])
}

// PayCustomer handles POST /customers/{id}/payments
func (h *PaymentHandler) PayCustomer(w http.ResponseWriter, r *http.Request) {
	h.applyTo(w, r, models.PaymentTargetCustomer, mux.Vars(r)["id"])
}

func (h *PaymentHandler) applyTo(w http.ResponseWriter, r *http.Request, kind models.PaymentTargetKind, targetID string) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	intent := models.PaymentIntent{
		TargetKind: kind,
		TargetID:   targetID,
		Amount:     req.Amount,
		Method:     req.Method,
		Reference:  req.Reference,
		Notes:      req.Notes,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		intent.Date = date
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		intent.OperatorID = userID
	}

	result, err := h.Service.ApplyIntent(r.Context(), &intent)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	payment, err := h.Service.GetPayment(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if payment == nil {
		utils.Error(w, http.StatusNotFound, "Payment not found")
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// GetOperation returns every split of one operation reference
func (h *PaymentHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	payments, err := h.Service.GetOperation(r.Context(), reference)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := &models.PaymentFilter{}
	q := r.URL.Query()
	filter.CustomerID, _ = strconv.Atoi(q.Get("customer_id"))
	filter.DebtID, _ = strconv.Atoi(q.Get("debt_id"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	if from := q.Get("from"); from != "" {
		if date, err := parseDate(from); err == nil {
			filter.StartDate = &date
		}
	}
	if to := q.Get("to"); to != "" {
		if date, err := parseDate(to); err == nil {
			filter.EndDate = &date
		}
	}

	payments, err := h.Service.ListPayments(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}
