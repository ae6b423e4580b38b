package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Dyslexia profile: reduce reading friction without reducing information.
// One idea per line, explicit labels, no parentheticals, no symbolic
// emphasis, abbreviations expanded once.

const dyMaxStepLength = 110

// Symbolic emphasis characters and emoji that carry meaning visually.
var dySymbolicEmphasisRe = regexp.MustCompile(`[*_→←↑↓]|[\x{1F300}-\x{1F9FF}]`)

func dyRemoveSymbolicEmphasis(s string) string {
	return strings.TrimSpace(dySymbolicEmphasisRe.ReplaceAllString(s, ""))
}

func dyNormalizeStep(step string) string {
	s := removeParentheticals(step)
	s = removeVisualRefs(s)
	s = dyRemoveSymbolicEmphasis(s)
	s = expandAbbreviations(s)
	s = collapseSpaces(s)
	return capLength(s, dyMaxStepLength)
}

func dyNormalizeSafestStep(s string) string {
	s = removeParentheticals(s)
	s = removeVisualRefs(s)
	s = dyRemoveSymbolicEmphasis(s)
	s = expandAbbreviations(s)
	return collapseSpaces(s)
}

func applyDyslexia(r assist.Result) assist.Result {
	out := r
	out.SafestNextStep = dyNormalizeSafestStep(r.SafestNextStep)

	var plan []string
	for _, step := range capSlice(r.Plan, 5) {
		if s := dyNormalizeStep(step); s != "" {
			plan = append(plan, s)
		}
	}
	out.Plan = plan

	var notes []string
	for _, note := range capSlice(r.Notes, 2) {
		n := removeParentheticals(note)
		n = dyRemoveSymbolicEmphasis(n)
		n = expandAbbreviations(n)
		n = collapseSpaces(n)
		if n != "" {
			notes = append(notes, n)
		}
	}
	out.Notes = notes

	// Commands pass through verbatim, capped to three.
	out.NextSafeCommands = append([]string{}, capSlice(r.NextSafeCommands, 3)...)
	return out
}

// renderDyslexia spaces every section apart and keeps one idea per line.
func renderDyslexia(r assist.Result) string {
	var lines []string

	lines = append(lines, "ASSIST (Dyslexia):")
	lines = append(lines, "")
	if r.AnchoredID != "" {
		lines = append(lines, fmt.Sprintf("Anchored ID: %s", r.AnchoredID))
	} else {
		lines = append(lines, "Anchored ID: none")
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Confidence: %s", r.Confidence))
	lines = append(lines, "")

	lines = append(lines, "Safest next step:")
	lines = append(lines, fmt.Sprintf("  %s", r.SafestNextStep))
	lines = append(lines, "")

	if len(r.Plan) > 0 {
		lines = append(lines, "Plan:")
		for i, step := range r.Plan {
			lines = append(lines, fmt.Sprintf("  - Step %d: %s", i+1, step))
		}
		lines = append(lines, "")
	}

	if len(r.NextSafeCommands) > 0 && r.Confidence != assist.ConfidenceLow {
		lines = append(lines, "Next safe command:")
		lines = append(lines, fmt.Sprintf("  %s", r.NextSafeCommands[0]))
		lines = append(lines, "")
	}

	if len(r.Notes) > 0 {
		lines = append(lines, "Notes:")
		for _, note := range capSlice(r.Notes, 2) {
			lines = append(lines, fmt.Sprintf("  - %s", note))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
