package gateway

import (
	"strconv"
	"strings"
	"time"
)

// ResolveInterval returns the bar interval used for a period when the caller
// did not request one explicitly.
func ResolveInterval(period string, mapping map[string]string) string {
	if iv, ok := mapping[period]; ok {
		return iv
	}
	return "1d"
}

// StartForPeriod derives the fetch window start from a period tag by calendar
// arithmetic: day-suffixed periods subtract N days, month-suffixed 30*N days,
// year-suffixed 365*N days, "max" roughly ten years.
func StartForPeriod(period string, end time.Time) time.Time {
	switch {
	case period == "1wk":
		return end.AddDate(0, 0, -7)
	case period == "max":
		return end.AddDate(0, 0, -3650)
	case strings.HasSuffix(period, "mo"):
		if n, err := strconv.Atoi(strings.TrimSuffix(period, "mo")); err == nil {
			return end.AddDate(0, 0, -30*n)
		}
	case strings.HasSuffix(period, "d"):
		if n, err := strconv.Atoi(strings.TrimSuffix(period, "d")); err == nil {
			return end.AddDate(0, 0, -n)
		}
	case strings.HasSuffix(period, "y"):
		if n, err := strconv.Atoi(strings.TrimSuffix(period, "y")); err == nil {
			return end.AddDate(0, 0, -365*n)
		}
	}
	return end.AddDate(0, 0, -1)
}
