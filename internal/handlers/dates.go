package handlers

import (
	"time"

	"premium-backend/internal/timeutil"
)

// parseDate reads a YYYY-MM-DD value as a business-timezone date
func parseDate(value string) (time.Time, error) {
	return timeutil.ParseInWAT(timeutil.DateLayout, value)
}
