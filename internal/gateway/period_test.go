package gateway

import (
	"testing"
	"time"

	"StockBoard/internal/config"
)

func TestResolveInterval(t *testing.T) {
	m := config.DefaultIntervalMap
	cases := []struct {
		period, want string
	}{
		{"1d", "1m"},
		{"5d", "5m"},
		{"1mo", "1h"},
		{"3mo", "1d"},
		{"1y", "1wk"},
		{"max", "1mo"},
		{"7mo", "1d"}, // unmapped period falls back to daily bars
	}
	for _, tc := range cases {
		if got := ResolveInterval(tc.period, m); got != tc.want {
			t.Errorf("ResolveInterval(%q) = %q, want %q", tc.period, got, tc.want)
		}
	}
}

func TestStartForPeriod(t *testing.T) {
	end := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		period string
		want   time.Time
	}{
		{"1d", end.AddDate(0, 0, -1)},
		{"5d", end.AddDate(0, 0, -5)},
		{"1wk", end.AddDate(0, 0, -7)},
		{"1mo", end.AddDate(0, 0, -30)},
		{"3mo", end.AddDate(0, 0, -90)},
		{"1y", end.AddDate(0, 0, -365)},
		{"5y", end.AddDate(0, 0, -1825)},
		{"max", end.AddDate(0, 0, -3650)},
		{"bogus", end.AddDate(0, 0, -1)},
	}
	for _, tc := range cases {
		if got := StartForPeriod(tc.period, end); !got.Equal(tc.want) {
			t.Errorf("StartForPeriod(%q) = %v, want %v", tc.period, got, tc.want)
		}
	}
}
