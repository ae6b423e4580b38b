// Package severity defines the finding severity scale shared by the gate
// and ingest pipelines.
package severity

import "strings"

// Order lists severities from least to most severe.
var Order = []string{"info", "minor", "moderate", "serious", "critical"}

var rank = map[string]int{
	"info":     0,
	"minor":    1,
	"moderate": 2,
	"serious":  3,
	"critical": 4,
}

// Normalize maps a severity string to canonical form. Common alternates
// are tolerated; anything unrecognized becomes info.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := rank[s]; ok {
		return s
	}
	switch s {
	case "warning":
		return "moderate"
	case "error":
		return "serious"
	}
	return "info"
}

// Rank returns the integer rank of a severity; higher is more severe.
func Rank(s string) int {
	return rank[Normalize(s)]
}

// AtLeast reports whether s is at least as severe as threshold.
func AtLeast(s, threshold string) bool {
	return Rank(s) >= Rank(threshold)
}
