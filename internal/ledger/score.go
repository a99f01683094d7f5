package ledger

// ReliabilityScore computes a customer's payment reliability as the
// percentage of their payments made on or before the owed debt's due date.
// A customer with no payment history scores 100: new customers get the
// benefit of the doubt.
func ReliabilityScore(totalPayments, latePayments int) float64 {
	if totalPayments <= 0 {
		return 100
	}
	if latePayments < 0 {
		latePayments = 0
	}
	if latePayments > totalPayments {
		latePayments = totalPayments
	}
	return Round(100 * float64(totalPayments-latePayments) / float64(totalPayments))
}
