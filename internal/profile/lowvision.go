package profile

import (
	"fmt"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// applyLowVision is the identity transform. Low-vision output relies on
// layout alone; truncation happens at render time.
func applyLowVision(r assist.Result) assist.Result {
	out := r
	out.Plan = append([]string{}, r.Plan...)
	out.NextSafeCommands = append([]string{}, r.NextSafeCommands...)
	out.Notes = append([]string{}, r.Notes...)
	return out
}

// renderLowVision formats a result with clear labels, spacing, and short
// lines. The template is fixed; golden tests compare literal output.
func renderLowVision(r assist.Result) string {
	var lines []string
	lines = append(lines, "ASSIST (Low Vision):")

	if r.AnchoredID != "" {
		lines = append(lines, fmt.Sprintf("- Anchored to: %s", r.AnchoredID))
	} else {
		lines = append(lines, "- Anchored to: (none)")
	}
	lines = append(lines, fmt.Sprintf("- Confidence: %s", r.Confidence))
	lines = append(lines, "")
	lines = append(lines, "Safest next step:")
	lines = append(lines, fmt.Sprintf("  %s", r.SafestNextStep))
	lines = append(lines, "")

	lines = append(lines, "Plan:")
	for i, step := range capSlice(r.Plan, 5) {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, step))
	}
	if len(r.Plan) > 5 {
		lines = append(lines, "  ...")
	}

	if len(r.NextSafeCommands) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Next (SAFE):")
		for _, cmd := range capSlice(r.NextSafeCommands, 3) {
			lines = append(lines, fmt.Sprintf("  %s", cmd))
		}
	}

	if len(r.Notes) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Notes:")
		for _, n := range capSlice(r.Notes, 5) {
			lines = append(lines, fmt.Sprintf("  - %s", n))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func capSlice(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
