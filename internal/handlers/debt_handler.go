package handlers

import (
	"net/http"
	"strconv"

	"premium-backend/internal/models"
	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DebtHandler struct {
	Service *services.DebtService
}

func NewDebtHandler(s *services.DebtService) *DebtHandler {
	return &DebtHandler{Service: s}
}

func (h *DebtHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	debt, err := h.Service.GetDebt(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if debt == nil {
		utils.Error(w, http.StatusNotFound, "Debt not found")
		return
	}
	utils.JSON(w, http.StatusOK, debt)
}

func (h *DebtHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.DebtFilter{
		ReceiptNumber: q.Get("receipt_number"),
		Status:        models.DebtStatus(q.Get("status")),
	}
	filter.CustomerID, _ = strconv.Atoi(q.Get("customer_id"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	debts, err := h.Service.ListDebts(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, debts)
}

// GetReceiptDebts returns a receipt's open debts in line order
func (h *DebtHandler) GetReceiptDebts(w http.ResponseWriter, r *http.Request) {
	receiptNumber := mux.Vars(r)["receiptNumber"]

	debts, err := h.Service.ListReceiptDebts(r.Context(), receiptNumber)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, debts)
}

// ListOverdue returns open debts past their due date
func (h *DebtHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	debts, err := h.Service.ListOverdue(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, debts)
}

// PromoteOverdue persists the OVERDUE label on lapsed debts
func (h *DebtHandler) PromoteOverdue(w http.ResponseWriter, r *http.Request) {
	promoted, err := h.Service.PromoteOverdue(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"promoted": promoted})
}

// GetDebtorSummaries returns the per-customer debtors dashboard
func (h *DebtHandler) GetDebtorSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.GetDebtorSummaries(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summaries)
}

// GetReceiptSummaries returns the per-receipt debtors dashboard
func (h *DebtHandler) GetReceiptSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.GetReceiptSummaries(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summaries)
}
