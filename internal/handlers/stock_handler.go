package handlers

import (
	"encoding/json"
	"net/http"

	"premium-backend/internal/middleware"
	"premium-backend/internal/models"
	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type StockHandler struct {
	Service *services.StockService
}

func NewStockHandler(s *services.StockService) *StockHandler {
	return &StockHandler{Service: s}
}

// RecordBatch handles POST /stock/batches
func (h *StockHandler) RecordBatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStockBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	operatorID, _ := middleware.GetUserIDFromContext(r.Context())
	batch, err := h.Service.RecordBatch(r.Context(), &req, operatorID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, batch)
}

func (h *StockHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Service.ListBatches(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, batches)
}

// ListProductBatches handles GET /stock/products/{name}/batches
func (h *StockHandler) ListProductBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Service.ListProductBatches(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, batches)
}

// GetValuations returns the weighted average cost view per product
func (h *StockHandler) GetValuations(w http.ResponseWriter, r *http.Request) {
	valuations, err := h.Service.GetValuations(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, valuations)
}
