package severity

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"info", "info"},
		{"minor", "minor"},
		{"moderate", "moderate"},
		{"serious", "serious"},
		{"critical", "critical"},
		{"CRITICAL", "critical"},
		{"  Serious ", "serious"},
		{"warning", "moderate"},
		{"error", "serious"},
		{"bogus", "info"},
		{"", "info"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	for i := 1; i < len(Order); i++ {
		if Rank(Order[i-1]) >= Rank(Order[i]) {
			t.Errorf("Rank(%q) >= Rank(%q)", Order[i-1], Order[i])
		}
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		s, threshold string
		want         bool
	}{
		{"critical", "serious", true},
		{"serious", "serious", true},
		{"moderate", "serious", false},
		{"error", "serious", true},
		{"warning", "serious", false},
		{"unknown", "info", true},
	}
	for _, tt := range tests {
		if got := AtLeast(tt.s, tt.threshold); got != tt.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.s, tt.threshold, got, tt.want)
		}
	}
}
