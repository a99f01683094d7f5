package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"premium-backend/internal/models"
	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	Service     *services.CustomerService
	DebtService *services.DebtService
}

func NewCustomerHandler(s *services.CustomerService, debtService *services.DebtService) *CustomerHandler {
	return &CustomerHandler{Service: s, DebtService: debtService}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.CreateCustomer(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	customer, err := h.Service.GetCustomer(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if customer == nil {
		utils.Error(w, http.StatusNotFound, "Customer not found")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) SearchByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		utils.Error(w, http.StatusBadRequest, "phone parameter is required")
		return
	}

	customer, err := h.Service.SearchByPhone(r.Context(), phone)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if customer == nil {
		utils.Error(w, http.StatusNotFound, "Customer not found")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.UpdateCustomer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteCustomer(r.Context(), id); err != nil {
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetCustomerDebts returns a customer's open debts in payment order
func (h *CustomerHandler) GetCustomerDebts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	debts, err := h.DebtService.ListCustomerDebts(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, debts)
}
