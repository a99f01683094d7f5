package ledger

import "math"

// Round normalizes a money amount to 2 decimal places (kobo precision).
// Every amount entering or leaving the ledger passes through here, so two
// amounts that agree at 2dp compare equal as float64.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
