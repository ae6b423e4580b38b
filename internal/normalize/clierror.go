// Package normalize builds the base assist result from either validated
// cli.error.v0.1 JSON (High confidence) or best-effort raw text parsing
// (Medium/Low). Normalizers are pure: same input, same result.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// idRe is the stable diagnostic identifier shape: NAMESPACE.CATEGORY.DETAIL.
var idRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*(?:\.[A-Z0-9]+)+$`)

// StringOrList accepts either a JSON string or an array of strings.
// cli.error.v0.1 allows both shapes for what/why/fix.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*s = nil
			return nil
		}
		*s = StringOrList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	out := make(StringOrList, 0, len(list))
	for _, v := range list {
		if v != "" {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// CliError is a parsed cli.error.v0.1 message.
type CliError struct {
	ID    string       `json:"id"`
	Code  string       `json:"code"`
	Title string       `json:"title"`
	What  StringOrList `json:"what"`
	Why   StringOrList `json:"why"`
	Fix   StringOrList `json:"fix"`
}

// ValidationError reports cli.error.v0.1 validation failures. Errors are
// path-qualified and sorted so output is stable.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "cli.error.v0.1 validation failed"
}

// ParseCliError validates raw JSON bytes as cli.error.v0.1. Validation
// fails closed: any problem returns a *ValidationError listing every issue.
func ParseCliError(data []byte) (CliError, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return CliError{}, &ValidationError{Errors: []string{"(root): not a JSON object: " + err.Error()}}
	}

	var errs []string
	addErr := func(path, msg string) {
		errs = append(errs, path+": "+msg)
	}

	var ce CliError
	if err := json.Unmarshal(data, &ce); err != nil {
		// Field-level type mismatches; attribute to the offending field.
		for _, field := range []string{"what", "why", "fix"} {
			if msg, ok := raw[field]; ok {
				var sl StringOrList
				if uerr := json.Unmarshal(msg, &sl); uerr != nil {
					addErr(field, uerr.Error())
				}
			}
		}
		for _, field := range []string{"id", "code", "title"} {
			if msg, ok := raw[field]; ok {
				var s string
				if uerr := json.Unmarshal(msg, &s); uerr != nil {
					addErr(field, "expected string")
				}
			}
		}
		if len(errs) == 0 {
			addErr("(root)", err.Error())
		}
	}

	if ce.ID == "" && ce.Code == "" {
		addErr("id", "required (or provide code)")
	}
	if ce.ID != "" && !idRe.MatchString(ce.ID) {
		addErr("id", fmt.Sprintf("%q does not match NAMESPACE.CATEGORY.DETAIL", ce.ID))
	}
	if len(ce.Fix) == 0 {
		if _, ok := raw["fix"]; !ok {
			addErr("fix", "required")
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return CliError{}, &ValidationError{Errors: errs}
	}
	return ce, nil
}

// safeCommandCandidates pulls command-looking lines out of fix text. Only
// lines already present in the input can become commands.
func safeCommandCandidates(fix []string) []string {
	var cmds []string
	for _, line := range fix {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(line, "--dry-run") ||
			strings.HasPrefix(trimmed, "$ ") ||
			strings.HasPrefix(trimmed, "> ") ||
			strings.HasPrefix(trimmed, "run ") {
			cleaned := strings.ReplaceAll(line, "$", "")
			cleaned = strings.ReplaceAll(cleaned, ">", "")
			cmds = append(cmds, strings.TrimSpace(cleaned))
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "re-run:") {
			if _, rest, ok := strings.Cut(line, ":"); ok {
				cmds = append(cmds, strings.TrimSpace(rest))
			}
		}
	}
	return cmds
}

// filterSafe keeps only clearly non-destructive commands and dedupes,
// preserving order.
func filterSafe(cmds []string) []string {
	var safe []string
	seen := make(map[string]bool)
	for _, c := range cmds {
		if !strings.Contains(c, "--dry-run") &&
			!strings.Contains(c, "validate") &&
			!strings.Contains(c, "check") {
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		safe = append(safe, c)
	}
	return safe
}

// FromCliError builds the High-confidence base result from a validated
// message. Deterministic: no guessing, plan comes from Fix lines verbatim.
func FromCliError(ce CliError) assist.Result {
	anchoredID := ce.ID
	if anchoredID == "" {
		anchoredID = ce.Code
	}

	title := ce.Title
	if title == "" && len(ce.What) > 0 {
		title = ce.What[0]
	}
	if title == "" {
		title = "Issue"
	}

	var plan []string
	for _, line := range ce.Fix {
		if s := strings.TrimSpace(line); s != "" {
			plan = append(plan, s)
		}
	}
	if len(plan) == 0 {
		plan = []string{"Follow the Fix steps provided by the tool output."}
	}

	safest := "Follow the Fix steps in order, starting with the least risky check."
	if len(ce.Why) > 0 && strings.TrimSpace(ce.Why[0]) != "" {
		safest = "Start by confirming the cause described under 'Why', then apply the first Fix step."
	}

	safeCmds := filterSafe(safeCommandCandidates(ce.Fix))
	if len(safeCmds) > 3 {
		safeCmds = safeCmds[:3]
	}

	notes := []string{
		fmt.Sprintf("Original title: %s", title),
		"This assist block is additive; it does not replace the tool's output.",
	}

	var evidence []assist.Evidence
	if len(ce.Why) > 0 {
		evidence = append(evidence, assist.Evidence{Field: "safest_next_step", Source: "cli.error.why[0]"})
	} else {
		evidence = append(evidence, assist.Evidence{Field: "safest_next_step", Source: "cli.error.fix[0]"})
	}
	evidence = append(evidence, assist.EvidenceForPlan(plan, "cli.error.fix")...)
	evidence = append(evidence, commandEvidence(safeCmds, ce.Fix)...)

	return assist.Result{
		AnchoredID:       anchoredID,
		Confidence:       assist.ConfidenceHigh,
		SafestNextStep:   safest,
		Plan:             plan,
		NextSafeCommands: safeCmds,
		Notes:            notes,
		MethodsApplied:   []string{assist.MethodNormalizeCliError},
		Evidence:         evidence,
	}
}

// commandEvidence maps each surfaced command back to the fix line it came
// from.
func commandEvidence(cmds, fix []string) []assist.Evidence {
	var evidence []assist.Evidence
	for i, cmd := range cmds {
		for j, line := range fix {
			fromRerun := false
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "re-run:") {
				if _, rest, ok := strings.Cut(line, ":"); ok {
					fromRerun = cmd == strings.TrimSpace(rest)
				}
			}
			if strings.Contains(line, cmd) || fromRerun {
				evidence = append(evidence, assist.Evidence{
					Field:  fmt.Sprintf("next_safe_commands[%d]", i),
					Source: fmt.Sprintf("cli.error.fix[%d]", j),
				})
				break
			}
		}
	}
	return evidence
}

// ValidationFallback is the Low-confidence result produced when structured
// input fails validation. Never a crash; the errors become a note.
func ValidationFallback(verr *ValidationError) assist.Result {
	errs := verr.Errors
	if len(errs) > 5 {
		errs = errs[:5]
	}
	return assist.Result{
		Confidence:     assist.ConfidenceLow,
		SafestNextStep: "Emit a valid cli.error.v0.1 JSON message and retry.",
		Plan: []string{
			"Validate your JSON output against cli.error.v0.1.",
			"Include an (ID: NAMESPACE.CATEGORY.DETAIL) field.",
			"Ensure What/Why/Fix are present for WARN/ERROR.",
		},
		NextSafeCommands: []string{},
		Notes:            []string{"Validation errors (first 5): " + strings.Join(errs, "; ")},
	}
}
