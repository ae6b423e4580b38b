package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Cognitive-load profile: reduce decisions and reading effort. Short
// imperative steps, no conjunctions, no parentheticals, at most three steps
// and one SAFE command.

const clMaxStepLength = 90

var clBoilerplateRe = regexp.MustCompile(`(?i)^(re-?run:\s*|run:\s*|try:\s*|\$\s*|>\s*)`)

var clImperativeRewrites = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)^you should\s+`), "Do "},
	{regexp.MustCompile(`(?i)^please\s+`), "Do "},
	{regexp.MustCompile(`(?i)^consider\s+`), "Try "},
	{regexp.MustCompile(`(?i)^it may help to\s+`), "Try "},
}

var clConjunctionReplacements = []struct{ old, new string }{
	{" and then ", ". Then "},
	{" and ", ". "},
	{" but ", ". "},
}

func clToImperative(s string) string {
	for _, r := range clImperativeRewrites {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// clReduceConjunctions collapses conjunction-joined clauses and keeps only
// the first sentence.
func clReduceConjunctions(s string) string {
	for _, r := range clConjunctionReplacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	if i := strings.Index(s, ". "); i >= 0 {
		s = strings.TrimSpace(s[:i])
	} else {
		s = strings.TrimSpace(s)
	}
	if s != "" && !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

func clNormalizeStep(step string) string {
	s := strings.TrimSpace(step)
	if s == "" {
		return s
	}
	s = stripPrefix(s, clBoilerplateRe)
	s = removeParentheticals(s)
	s = clToImperative(s)
	s = clReduceConjunctions(s)
	return capLength(s, clMaxStepLength)
}

func clNormalizeSafestStep(s string) string {
	if s == "" {
		return "Follow the Fix steps."
	}
	s = removeParentheticals(s)
	for _, sep := range []string{";", ","} {
		if i := strings.Index(s, sep); i >= 0 {
			s = strings.TrimSpace(s[:i])
			break
		}
	}
	s = clReduceConjunctions(s)
	return capLength(ensurePeriod(s), clMaxStepLength)
}

func clReducePlan(plan []string) []string {
	const fallback = "Follow the tool's Fix steps in order."
	if len(plan) == 0 {
		return []string{fallback}
	}
	var normalized []string
	for _, step := range plan {
		if strings.TrimSpace(step) == "" {
			continue
		}
		if s := clNormalizeStep(step); s != "" {
			normalized = append(normalized, s)
		}
	}
	if len(normalized) == 0 {
		return []string{fallback}
	}
	return capSlice(normalized, 3)
}

func clReduceNotes(notes []string) []string {
	var reduced []string
	for _, note := range capSlice(notes, 2) {
		n := capLength(removeParentheticals(note), 100)
		if n != "" {
			reduced = append(reduced, n)
		}
	}
	return reduced
}

func applyCognitiveLoad(r assist.Result) assist.Result {
	out := r
	out.Plan = clReducePlan(r.Plan)
	out.SafestNextStep = clNormalizeSafestStep(r.SafestNextStep)

	out.NextSafeCommands = nil
	if cmd, ok := selectSafeCommand(r.NextSafeCommands, r.Confidence); ok {
		out.NextSafeCommands = []string{cmd}
	}
	out.Notes = clReduceNotes(r.Notes)
	return out
}

// renderCognitiveLoad uses First/Next/Last labels instead of numbers and a
// fixed goal line, trading density for orientation.
func renderCognitiveLoad(r assist.Result) string {
	stepLabels := []string{"First", "Next", "Last"}

	var lines []string
	lines = append(lines, "ASSIST (Cognitive Load):")

	if r.AnchoredID != "" {
		lines = append(lines, fmt.Sprintf("- Anchored to: %s", r.AnchoredID))
	} else {
		lines = append(lines, "- Anchored to: (none)")
	}
	lines = append(lines, fmt.Sprintf("- Confidence: %s", r.Confidence))
	lines = append(lines, "")

	lines = append(lines, "Goal: Get back to a known-good state.")
	lines = append(lines, "")

	lines = append(lines, "Safest next step:")
	lines = append(lines, fmt.Sprintf("  %s", r.SafestNextStep))
	lines = append(lines, "")

	lines = append(lines, "Plan:")
	for i, step := range capSlice(r.Plan, 3) {
		label := fmt.Sprintf("Step %d", i+1)
		if i < len(stepLabels) {
			label = stepLabels[i]
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", label, step))
	}

	if len(r.NextSafeCommands) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Next (SAFE):")
		lines = append(lines, fmt.Sprintf("  %s", r.NextSafeCommands[0]))
	}

	if len(r.Notes) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Notes:")
		for _, note := range capSlice(r.Notes, 2) {
			lines = append(lines, fmt.Sprintf("  - %s", note))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
