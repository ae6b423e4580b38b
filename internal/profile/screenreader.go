package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Screen-reader profile: output is consumed by TTS and braille displays.
// Meaning must never live in punctuation or layout alone, visual navigation
// references are removed, and abbreviations are expanded for speech.

const (
	srMaxStepLength = 110
	srMaxNoteLength = 120
)

var srBoilerplateRe = regexp.MustCompile(`(?i)^(re-?run:\s*|run:\s*|try:\s*|next:\s*|\$\s*|>\s*)`)

// Symbols that screen readers read awkwardly.
var srSymbolReplacements = []struct{ old, new string }{
	{"->", " to "},
	{"=>", " to "},
	{" & ", " and "},
}

func srReplaceSymbols(s string) string {
	for _, r := range srSymbolReplacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return collapseSpaces(s)
}

func srNormalizeStep(step string) string {
	s := strings.TrimSpace(step)
	if s == "" {
		return s
	}
	s = stripPrefix(s, srBoilerplateRe)
	s = removeParentheticals(s)
	s = removeVisualRefs(s)
	s = expandAbbreviations(s)
	s = srReplaceSymbols(s)
	s = firstSentence(s)
	s = ensurePeriod(s)
	return capLength(s, srMaxStepLength)
}

func srNormalizeSafestStep(s string) string {
	if s == "" {
		return "Follow the steps in order."
	}
	s = removeParentheticals(s)
	s = removeVisualRefs(s)
	s = expandAbbreviations(s)
	s = srReplaceSymbols(s)
	s = firstSentence(s)
	s = ensurePeriod(s)
	return capLength(s, srMaxStepLength)
}

// srReducePlan keeps five steps normally, three on Low confidence to reduce
// listening time.
func srReducePlan(plan []string, confidence assist.Confidence) []string {
	const fallback = "Follow the tool's instructions."
	if len(plan) == 0 {
		return []string{fallback}
	}

	maxSteps := 5
	if confidence == assist.ConfidenceLow {
		maxSteps = 3
	}

	var normalized []string
	for _, step := range plan {
		if strings.TrimSpace(step) == "" {
			continue
		}
		if s := srNormalizeStep(step); s != "" {
			normalized = append(normalized, s)
		}
	}
	if len(normalized) == 0 {
		return []string{fallback}
	}
	return capSlice(normalized, maxSteps)
}

// srSelectSafeCommand strips a leading dollar prefix: screen readers would
// speak it as "dollar". This is the only profile allowed to alter command
// text, and only the leading symbol, never content.
func srSelectSafeCommand(commands []string, confidence assist.Confidence) (string, bool) {
	cmd, ok := selectSafeCommand(commands, confidence)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(cmd, "$ ") {
		cmd = cmd[2:]
	} else if strings.HasPrefix(cmd, "$") {
		cmd = cmd[1:]
	}
	return cmd, true
}

func srReduceNotes(notes []string) []string {
	var reduced []string
	for _, note := range capSlice(notes, 3) {
		n := removeParentheticals(note)
		n = removeVisualRefs(n)
		n = expandAbbreviations(n)
		n = srReplaceSymbols(n)
		n = firstSentence(n)
		n = ensurePeriod(n)
		n = capLength(n, srMaxNoteLength)
		if n != "" && n != "." {
			reduced = append(reduced, n)
		}
	}
	return reduced
}

// srSummary derives a one-sentence summary without inventing facts: the
// original title note when present, else a fixed per-confidence sentence.
func srSummary(r assist.Result) string {
	for _, note := range r.Notes {
		if strings.HasPrefix(strings.ToLower(note), "original title:") {
			title := strings.TrimSpace(note[len("original title:"):])
			if title != "" {
				return ensurePeriod(capLength(title, 80))
			}
		}
	}
	switch r.Confidence {
	case assist.ConfidenceHigh:
		return "A structured error was detected."
	case assist.ConfidenceMedium:
		return "An error was detected with partial information."
	default:
		return "The input did not include a stable error identifier."
	}
}

func applyScreenReader(r assist.Result) assist.Result {
	out := r
	out.Plan = srReducePlan(r.Plan, r.Confidence)
	out.SafestNextStep = srNormalizeSafestStep(r.SafestNextStep)

	out.NextSafeCommands = nil
	if cmd, ok := srSelectSafeCommand(r.NextSafeCommands, r.Confidence); ok {
		out.NextSafeCommands = []string{cmd}
	}
	out.Notes = srReduceNotes(r.Notes)
	return out
}

// renderScreenReader uses spoken-friendly headers in a fixed section order.
// "Anchored I D" is spelled out for TTS.
func renderScreenReader(r assist.Result) string {
	var lines []string
	lines = append(lines, "ASSIST. Profile: Screen reader.")

	if r.AnchoredID != "" {
		lines = append(lines, fmt.Sprintf("Anchored I D: %s.", r.AnchoredID))
	} else {
		lines = append(lines, "Anchored I D: none.")
	}
	lines = append(lines, fmt.Sprintf("Confidence: %s.", r.Confidence))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("Summary: %s", srSummary(r)))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("Safest next step: %s", r.SafestNextStep))
	lines = append(lines, "")

	lines = append(lines, "Steps:")
	for i, step := range r.Plan {
		lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, step))
	}

	if len(r.NextSafeCommands) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Next safe command:")
		lines = append(lines, r.NextSafeCommands[0])
	}

	if len(r.Notes) > 0 {
		lines = append(lines, "")
		if len(r.Notes) == 1 {
			lines = append(lines, fmt.Sprintf("Note: %s", r.Notes[0]))
		} else {
			lines = append(lines, "Notes:")
			lines = append(lines, r.Notes...)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
