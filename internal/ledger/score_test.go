package ledger

import "testing"

func TestReliabilityScore(t *testing.T) {
	cases := []struct {
		name  string
		total int
		late  int
		want  float64
	}{
		{"no history scores full", 0, 0, 100},
		{"all on time", 10, 0, 100},
		{"one late of four", 4, 1, 75},
		{"one late of three", 3, 1, 66.67},
		{"all late", 5, 5, 0},
		{"late clamped to total", 2, 9, 0},
		{"negative late ignored", 4, -1, 100},
	}
	for _, tc := range cases {
		if got := ReliabilityScore(tc.total, tc.late); got != tc.want {
			t.Errorf("%s: ReliabilityScore(%d, %d) = %.2f, want %.2f", tc.name, tc.total, tc.late, got, tc.want)
		}
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{12.3456, 12.35},
		{12.344, 12.34},
		{0.1 + 0.2, 0.3},
		{-5.554, -5.55},
		{1999.999, 2000},
	}
	for _, tc := range cases {
		if got := Round(tc.in); got != tc.want {
			t.Errorf("Round(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
