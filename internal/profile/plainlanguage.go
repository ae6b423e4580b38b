package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Plain-language profile: one clause per sentence, no subordinate clauses,
// no parentheticals. At most four steps and one SAFE command.

var (
	plConjunctionRe = regexp.MustCompile(`\s*(?:,\s*and\s+|,\s*but\s+|,\s*or\s+|\s+and\s+|\s+but\s+|\s+or\s+)`)
	plSubordinateRe = regexp.MustCompile(`(?i)\s*(?:,\s*)?(?:which|that|who|whom|whose|when|where|while|although|because|if|unless|until|after|before|since)\s+.*$`)
)

// plSimplify reduces text to a single clause: strip parentheticals, keep
// the first conjunction-joined clause, drop subordinate clauses.
func plSimplify(text string) string {
	result := removeParentheticals(text)

	if loc := plConjunctionRe.FindStringIndex(result); loc != nil {
		result = strings.TrimSpace(result[:loc[0]])
	}
	result = strings.TrimSpace(plSubordinateRe.ReplaceAllString(result, ""))
	result = collapseSpaces(result)

	if result != "" && !strings.ContainsRune(".!?:", rune(result[len(result)-1])) {
		result += "."
	}
	return result
}

func plNormalizeStep(step string) string {
	result := plSimplify(step)
	result = removeParentheticals(result)
	return collapseSpaces(result)
}

func applyPlainLanguage(r assist.Result) assist.Result {
	out := r
	out.SafestNextStep = plSimplify(r.SafestNextStep)

	var plan []string
	for _, step := range capSlice(r.Plan, 4) {
		if s := plNormalizeStep(step); len(s) > 2 {
			plan = append(plan, s)
		}
	}
	out.Plan = plan

	var notes []string
	for _, note := range capSlice(r.Notes, 2) {
		if n := plSimplify(note); len(n) > 2 {
			notes = append(notes, n)
		}
	}
	out.Notes = notes

	out.NextSafeCommands = append([]string{}, capSlice(r.NextSafeCommands, 1)...)
	return out
}

// renderPlainLanguage keeps the simplest possible structure. Notes are
// omitted entirely to keep the output as clear as possible.
func renderPlainLanguage(r assist.Result) string {
	var lines []string

	lines = append(lines, "ASSIST (Plain Language)")
	if r.AnchoredID != "" {
		lines = append(lines, fmt.Sprintf("ID: %s", r.AnchoredID))
	} else {
		lines = append(lines, "ID: none")
	}
	lines = append(lines, fmt.Sprintf("Confidence: %s", r.Confidence))
	lines = append(lines, "")

	lines = append(lines, "What to do next:")
	lines = append(lines, fmt.Sprintf("  %s", r.SafestNextStep))
	lines = append(lines, "")

	if len(r.Plan) > 0 {
		lines = append(lines, "Steps:")
		for i, step := range r.Plan {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step))
		}
		lines = append(lines, "")
	}

	if len(r.NextSafeCommands) > 0 && r.Confidence != assist.ConfidenceLow {
		lines = append(lines, "Safe command:")
		lines = append(lines, fmt.Sprintf("  %s", r.NextSafeCommands[0]))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
