package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"premium-backend/internal/services"
	"premium-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// GetCustomerStatement streams a customer's statement as PDF
func (h *ReportHandler) GetCustomerStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	pdf, err := h.Service.GenerateCustomerStatementPDF(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%d.pdf"`, id))
	w.Write(pdf)
}

// GetDebtorsCSV streams the debtors dashboard as CSV
func (h *ReportHandler) GetDebtorsCSV(w http.ResponseWriter, r *http.Request) {
	csvData, err := h.Service.GenerateDebtorsCSV(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="debtors.csv"`)
	w.Write(csvData)
}
