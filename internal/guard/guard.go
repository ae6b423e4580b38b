// Package guard is the centralized invariant checker run after every profile
// transform. It compares the base AssistResult against the transformed one
// and rejects any transform that invents IDs, raises confidence, surfaces
// commands outside the allowed set, or breaks per-profile text constraints.
//
// A guard violation is an engine bug, never a user error.
package guard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Severity of a guard issue. ERROR issues abort rendering; WARN issues are
// collected for logging and never block.
type Severity string

const (
	SeverityError Severity = "ERROR"
	SeverityWarn  Severity = "WARN"
)

// Issue codes. The code set is a behavioral contract: tests and callers
// match on them.
const (
	CodeIDInvented            = "A11Y.ASSIST.GUARD.ID.INVENTED"
	CodeIDChanged             = "A11Y.ASSIST.GUARD.ID.CHANGED"
	CodeConfidenceIncreased   = "A11Y.ASSIST.GUARD.CONFIDENCE.INCREASED"
	CodeCommandsInvented      = "A11Y.ASSIST.GUARD.COMMANDS.INVENTED"
	CodeCommandsLowConfidence = "A11Y.ASSIST.GUARD.COMMANDS.DISALLOWED_LOW_CONF"
	CodePlanTooManySteps      = "A11Y.ASSIST.GUARD.PLAN.TOO_MANY_STEPS"
	CodeContentUnsupported    = "A11Y.ASSIST.GUARD.CONTENT.UNSUPPORTED"
	CodeParentheticals        = "A11Y.ASSIST.GUARD.TEXT.PARENTHETICALS_FORBIDDEN"
	CodeVisualRefs            = "A11Y.ASSIST.GUARD.TEXT.VISUAL_REFS_FORBIDDEN"
)

var (
	visualNavRe     = regexp.MustCompile(`(?i)\b(see\s+)?(above|below|left|right|arrow)\b`)
	parentheticalRe = regexp.MustCompile(`[()\[\]]`)
)

// Issue is a single guard finding.
type Issue struct {
	Severity Severity          `json:"severity"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
}

// Violation is the error returned when a transform breaks one or more
// ERROR-severity invariants. It carries every simultaneous violation, not
// just the first.
type Violation struct {
	Issues []Issue
}

func (v *Violation) Error() string {
	var sb strings.Builder
	sb.WriteString("profile guard violation:")
	for _, issue := range v.Issues {
		fmt.Fprintf(&sb, "\n  [%s] %s: %s", issue.Severity, issue.Code, issue.Message)
	}
	return sb.String()
}

// Context carries the per-invocation policy the guard enforces. It is built
// once per pipeline run and discarded after validation.
type Context struct {
	Profile    string
	Confidence assist.Confidence
	InputKind  string

	// AllowedSafeCommands are the verbatim commands observed in the base
	// result; the only commands any transform may surface.
	AllowedSafeCommands []string

	ForbidParentheticals bool
	ForbidVisualRefs     bool
	// MaxSteps caps the transformed plan length when > 0.
	MaxSteps int
	// AllowCommandsOnLow is false under current policy: Low-confidence
	// results never carry commands.
	AllowCommandsOnLow bool
}

// ContextFor builds the guard context for a profile. The caps here mirror
// each transform's own policy; the guard re-checks them independently so a
// transform bug cannot silently violate an invariant.
func ContextFor(profile string, confidence assist.Confidence, inputKind string, allowedCommands []string) Context {
	ctx := Context{
		Profile:             profile,
		Confidence:          confidence,
		InputKind:           inputKind,
		AllowedSafeCommands: allowedCommands,
	}

	switch profile {
	case "lowvision":
		ctx.MaxSteps = 5
	case "cognitive-load":
		ctx.MaxSteps = 3
	case "screen-reader":
		ctx.ForbidParentheticals = true
		ctx.ForbidVisualRefs = true
		if confidence == assist.ConfidenceLow {
			ctx.MaxSteps = 3
		} else {
			ctx.MaxSteps = 5
		}
	case "dyslexia":
		ctx.ForbidParentheticals = true
		ctx.ForbidVisualRefs = true
		ctx.MaxSteps = 5
	case "plain-language":
		ctx.ForbidParentheticals = true
		ctx.MaxSteps = 4
	}
	return ctx
}

// Validate runs every invariant check against the transformed result and
// returns all issues found. The error is a *Violation holding the ERROR
// subset when any check failed; WARN-only outcomes return a nil error.
// The guard never mutates either result.
func Validate(baseText string, base, transformed assist.Result, ctx Context) ([]Issue, error) {
	var issues []Issue

	issues = append(issues, checkID(base, transformed)...)
	issues = append(issues, checkConfidence(base, transformed)...)
	issues = append(issues, checkCommands(transformed, ctx)...)
	issues = append(issues, checkStepCount(transformed, ctx)...)
	issues = append(issues, checkContentSupport(baseText, transformed)...)

	if ctx.ForbidParentheticals {
		issues = append(issues, checkTextConstraint(transformed, parentheticalRe,
			CodeParentheticals, "parentheticals found in %s")...)
	}
	if ctx.ForbidVisualRefs {
		issues = append(issues, checkTextConstraint(transformed, visualNavRe,
			CodeVisualRefs, "visual navigation reference found in %s")...)
	}

	var errs []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	if len(errs) > 0 {
		return issues, &Violation{Issues: errs}
	}
	return issues, nil
}

func checkID(base, transformed assist.Result) []Issue {
	if base.AnchoredID == "" {
		if transformed.AnchoredID != "" {
			return []Issue{{
				Severity: SeverityError,
				Code:     CodeIDInvented,
				Message:  "profile invented an anchored ID that did not exist in base",
				Details: map[string]string{
					"base_id":     "(none)",
					"profiled_id": transformed.AnchoredID,
				},
			}}
		}
		return nil
	}
	if transformed.AnchoredID != base.AnchoredID {
		return []Issue{{
			Severity: SeverityError,
			Code:     CodeIDChanged,
			Message:  "profile changed the anchored ID",
			Details: map[string]string{
				"base_id":     base.AnchoredID,
				"profiled_id": transformed.AnchoredID,
			},
		}}
	}
	return nil
}

func checkConfidence(base, transformed assist.Result) []Issue {
	if transformed.Confidence.Rank() > base.Confidence.Rank() {
		return []Issue{{
			Severity: SeverityError,
			Code:     CodeConfidenceIncreased,
			Message:  "profile increased the confidence level",
			Details: map[string]string{
				"base_confidence":     string(base.Confidence),
				"profiled_confidence": string(transformed.Confidence),
			},
		}}
	}
	return nil
}

// NormalizeCommand strips the cosmetic leading "$ " prefix for comparison.
// This is the only alteration the guard tolerates between a surfaced command
// and its allowed source.
func NormalizeCommand(cmd string) string {
	return strings.TrimSpace(strings.TrimLeft(cmd, "$ "))
}

func checkCommands(transformed assist.Result, ctx Context) []Issue {
	var issues []Issue

	for _, cmd := range transformed.NextSafeCommands {
		normalized := NormalizeCommand(cmd)
		allowed := false
		for _, a := range ctx.AllowedSafeCommands {
			if normalized == NormalizeCommand(a) {
				allowed = true
				break
			}
		}
		if !allowed {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeCommandsInvented,
				Message:  "profile included a command not in the allowed set",
				Details: map[string]string{
					"command":          cmd,
					"allowed_commands": joinOrNone(ctx.AllowedSafeCommands),
				},
			})
		}
	}

	if ctx.Confidence == assist.ConfidenceLow && !ctx.AllowCommandsOnLow &&
		len(transformed.NextSafeCommands) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeCommandsLowConfidence,
			Message:  "profile included commands on Low confidence",
			Details: map[string]string{
				"commands": strings.Join(transformed.NextSafeCommands, ", "),
			},
		})
	}
	return issues
}

func checkStepCount(transformed assist.Result, ctx Context) []Issue {
	if ctx.MaxSteps > 0 && len(transformed.Plan) > ctx.MaxSteps {
		return []Issue{{
			Severity: SeverityError,
			Code:     CodePlanTooManySteps,
			Message:  fmt.Sprintf("profile exceeded max steps (%d)", ctx.MaxSteps),
			Details: map[string]string{
				"max_steps":    strconv.Itoa(ctx.MaxSteps),
				"actual_steps": strconv.Itoa(len(transformed.Plan)),
			},
		}}
	}
	return nil
}

func checkContentSupport(baseText string, transformed assist.Result) []Issue {
	baseTokens := Tokenize(baseText)
	var issues []Issue

	if !IsContentSupported(transformed.SafestNextStep, baseTokens) {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     CodeContentUnsupported,
			Message:  "safest next step contains content not found in base text",
			Details:  map[string]string{"text": truncate(transformed.SafestNextStep, 80)},
		})
	}
	for i, step := range transformed.Plan {
		if !IsContentSupported(step, baseTokens) {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     CodeContentUnsupported,
				Message:  fmt.Sprintf("plan step %d contains content not found in base text", i+1),
				Details:  map[string]string{"step": truncate(step, 80)},
			})
		}
	}
	return issues
}

func checkTextConstraint(transformed assist.Result, re *regexp.Regexp, code, msgFormat string) []Issue {
	fields := []struct {
		name string
		text string
	}{{"safest_next_step", transformed.SafestNextStep}}
	for i, step := range transformed.Plan {
		fields = append(fields, struct {
			name string
			text string
		}{fmt.Sprintf("plan[%d]", i), step})
	}
	for i, note := range transformed.Notes {
		fields = append(fields, struct {
			name string
			text string
		}{fmt.Sprintf("notes[%d]", i), note})
	}

	var issues []Issue
	for _, f := range fields {
		if re.MatchString(f.text) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     code,
				Message:  fmt.Sprintf(msgFormat, f.name),
				Details: map[string]string{
					"field": f.name,
					"text":  truncate(f.text, 80),
				},
			})
		}
	}
	return issues
}

func joinOrNone(cmds []string) string {
	if len(cmds) == 0 {
		return "(none)"
	}
	return strings.Join(cmds, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
