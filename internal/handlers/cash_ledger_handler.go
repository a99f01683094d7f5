package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"premium-backend/internal/ledger"
	"premium-backend/internal/middleware"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
	"premium-backend/pkg/utils"
)

type CashLedgerHandler struct {
	Repo *repositories.CashLedgerRepository
}

func NewCashLedgerHandler(repo *repositories.CashLedgerRepository) *CashLedgerHandler {
	return &CashLedgerHandler{Repo: repo}
}

// CreateEntry records a manual cash movement, for expenses and corrections
// outside the payment path
func (h *CashLedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.CashLedgerEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if entry.EntryType != models.CashEntryTypeInflow && entry.EntryType != models.CashEntryTypeOutflow {
		utils.Error(w, http.StatusBadRequest, "entry_type must be INFLOW or OUTFLOW")
		return
	}
	entry.Amount = ledger.Round(entry.Amount)
	if entry.Amount <= 0 {
		utils.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if entry.Description == "" {
		utils.Error(w, http.StatusBadRequest, "description is required")
		return
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		entry.RecordedByUserID = userID
	}

	if err := h.Repo.Create(r.Context(), &entry); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

func (h *CashLedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter := h.filterFromQuery(r)

	entries, err := h.Repo.GetAll(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

// GetSummary totals cash movement over the filtered period
func (h *CashLedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter := h.filterFromQuery(r)

	summary, err := h.Repo.GetSummary(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *CashLedgerHandler) filterFromQuery(r *http.Request) *models.CashLedgerFilter {
	q := r.URL.Query()
	filter := &models.CashLedgerFilter{
		EntryType: models.CashEntryType(q.Get("entry_type")),
	}
	filter.CustomerID, _ = strconv.Atoi(q.Get("customer_id"))
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
	return filter
}
