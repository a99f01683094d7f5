package handlers

import (
	"errors"
	"net/http"

	"premium-backend/internal/ledger"
	"premium-backend/pkg/utils"
)

// writeLedgerError maps the ledger's typed errors onto HTTP statuses. An
// overpayment carries the outstanding balance so the counter can show the
// customer what is actually owed.
func writeLedgerError(w http.ResponseWriter, err error) {
	var invalidAmount *ledger.InvalidAmountError
	var overpayment *ledger.OverpaymentError
	var notFound *ledger.NotFoundError
	var conflict *ledger.ConcurrentModificationError

	switch {
	case errors.As(err, &invalidAmount):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &overpayment):
		utils.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       err.Error(),
			"requested":   overpayment.Requested,
			"outstanding": overpayment.Outstanding,
		})
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
