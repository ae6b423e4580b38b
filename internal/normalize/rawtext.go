package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Best-effort parsing of raw CLI output. Never invents an ID; confidence
// is Medium with a recognized ID, Low otherwise.

var (
	// statusRe matches a leading [OK]/[WARN]/[ERROR] line with an optional
	// trailing (ID: ...).
	statusRe = regexp.MustCompile(`^\[(OK|WARN|ERROR)\]\s+(.+?)\s*(\((ID:\s*.+)\))?\s*$`)

	// idInParensRe matches (ID: NAMESPACE.CATEGORY.DETAIL) anywhere.
	idInParensRe = regexp.MustCompile(`\(ID:\s*([A-Z][A-Z0-9]*(?:\.[A-Z0-9]+)+)\)`)
)

// Blocks holds the extracted What:/Why:/Fix: block lines, trimmed.
type Blocks struct {
	What []string
	Why  []string
	Fix  []string
}

// Parsed is the output of ParseRaw.
type Parsed struct {
	ID     string // empty when no ID was found
	Status string // OK, WARN, ERROR, or UNKNOWN
	Blocks Blocks
}

// ExtractID returns the first (ID: ...) match in text, or "".
func ExtractID(text string) string {
	m := idInParensRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractBlocks pulls What:/Why:/Fix: blocks out of lines. A block header
// is a line that, stripped, equals the label exactly. Block lines must be
// indented by at least two spaces; blank lines inside a block are skipped;
// any other line ends the block.
func extractBlocks(lines []string) Blocks {
	var blocks Blocks
	var current *[]string

	for _, line := range lines {
		s := strings.TrimRight(line, "\n")
		stripped := strings.TrimSpace(s)

		switch stripped {
		case "What:":
			current = &blocks.What
			continue
		case "Why:":
			current = &blocks.Why
			continue
		case "Fix:":
			current = &blocks.Fix
			continue
		}

		if current != nil && strings.HasPrefix(s, "  ") {
			*current = append(*current, stripped)
		} else if current != nil && stripped == "" {
			continue
		} else {
			current = nil
		}
	}
	return blocks
}

// ParseRaw parses raw CLI output into an ID, a status token, and blocks.
func ParseRaw(text string) Parsed {
	lines := strings.Split(text, "\n")
	status := "UNKNOWN"

	if len(lines) > 0 {
		if m := statusRe.FindStringSubmatch(strings.TrimSpace(lines[0])); m != nil {
			status = m[1]
		}
	}

	return Parsed{
		ID:     ExtractID(text),
		Status: status,
		Blocks: extractBlocks(lines),
	}
}

// rawEvidence anchors safest step, plan, and commands to the Fix block.
func rawEvidence(plan, safeCmds []string, haveFix bool) []assist.Evidence {
	var evidence []assist.Evidence
	if haveFix {
		evidence = append(evidence, assist.Evidence{Field: "safest_next_step", Source: "raw_text:Fix:1"})
		for i := range plan {
			evidence = append(evidence, assist.Evidence{
				Field:  fmt.Sprintf("plan[%d]", i),
				Source: fmt.Sprintf("raw_text:Fix:%d", i+1),
			})
		}
	}
	for i, cmd := range safeCmds {
		for j, line := range plan {
			if cmd == line {
				evidence = append(evidence, assist.Evidence{
					Field:  fmt.Sprintf("next_safe_commands[%d]", i),
					Source: fmt.Sprintf("raw_text:Fix:%d", j+1),
				})
				break
			}
		}
	}
	return evidence
}

// dryRunCommands picks plan lines containing --dry-run, capped to three.
func dryRunCommands(plan []string) []string {
	var cmds []string
	for _, line := range plan {
		if strings.Contains(line, "--dry-run") {
			cmds = append(cmds, line)
			if len(cmds) == 3 {
				break
			}
		}
	}
	return cmds
}

// FromRawText builds the best-effort base result for triage input.
func FromRawText(text string) assist.Result {
	parsed := ParseRaw(text)

	confidence := assist.ConfidenceLow
	var notes []string
	if parsed.ID != "" {
		confidence = assist.ConfidenceMedium
	} else {
		notes = append(notes, "No (ID: ...) found. Emit cli.error.v0.1 for high-confidence assist.")
	}
	notes = append(notes, controlCharNotes(text)...)

	haveFix := len(parsed.Blocks.Fix) > 0
	plan := parsed.Blocks.Fix
	if !haveFix {
		plan = []string{
			"Re-run the command with increased verbosity/logging.",
			"Update the tool to emit (ID: ...) and What/Why/Fix blocks.",
			"If this is your tool, adopt cli.error.v0.1 JSON output.",
		}
	}

	safeCmds := dryRunCommands(plan)

	return assist.Result{
		AnchoredID:       parsed.ID,
		Confidence:       confidence,
		SafestNextStep:   "Follow the tool's Fix steps, starting with the least risky check.",
		Plan:             plan,
		NextSafeCommands: safeCmds,
		Notes:            notes,
		MethodsApplied:   []string{assist.MethodNormalizeRawText},
		Evidence:         rawEvidence(plan, safeCmds, haveFix),
	}
}

// FromLastLog builds the base result for a captured last.log.
func FromLastLog(text string) assist.Result {
	parsed := ParseRaw(text)

	confidence := assist.ConfidenceLow
	var notes []string
	if parsed.ID != "" {
		confidence = assist.ConfidenceMedium
	} else {
		notes = append(notes, "No (ID: ...) found in last.log.")
	}

	haveFix := len(parsed.Blocks.Fix) > 0
	plan := parsed.Blocks.Fix
	if !haveFix {
		plan = []string{
			"Re-run with verbosity.",
			"Adopt cli.error.v0.1 output for high-confidence assistance.",
		}
	}

	safeCmds := dryRunCommands(plan)

	return assist.Result{
		AnchoredID:       parsed.ID,
		Confidence:       confidence,
		SafestNextStep:   "Start with the first Fix step. Prefer non-destructive checks.",
		Plan:             plan,
		NextSafeCommands: safeCmds,
		Notes:            notes,
		MethodsApplied:   []string{assist.MethodNormalizeRawText},
		Evidence:         rawEvidence(plan, safeCmds, haveFix),
	}
}

// EmptyLastLog is the fallback result when no last.log exists.
func EmptyLastLog() assist.Result {
	return assist.Result{
		Confidence:     assist.ConfidenceLow,
		SafestNextStep: "Run a command via assist-run or provide input via triage --stdin.",
		Plan: []string{
			"Try: assist-run <your-command>",
			"Then: a11y-assist last",
		},
		NextSafeCommands: []string{},
		Notes:            []string{"No last.log found."},
	}
}
