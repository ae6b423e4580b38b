// Package assist defines the central AssistResult value type shared by the
// normalizers, profile transforms, guard, and renderers.
//
// Results are value types: every pipeline stage builds a fresh Result rather
// than mutating one in place. AnchoredID and Confidence are set once at
// construction and must never change afterwards; the guard enforces this.
package assist

// Confidence is the quality signal attached to a Result.
// High only comes from schema-validated structured input, Medium from raw
// text with a recognized ID, Low otherwise.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Rank orders confidence levels: Low < Medium < High.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Evidence maps an output field back to the input locator it was derived
// from (e.g. plan[1] -> cli.error.fix[1]). Audit-only; never rendered.
type Evidence struct {
	Field  string `json:"field"`
	Source string `json:"source"`
	Note   string `json:"note,omitempty"`
}

// Result is the common intermediate representation for a diagnostic message.
type Result struct {
	// AnchoredID is a stable diagnostic identifier taken verbatim from the
	// input. Empty means no ID was present; one is never synthesized.
	AnchoredID string

	Confidence Confidence

	// SafestNextStep is a single recommended action, one sentence.
	SafestNextStep string

	// Plan holds remediation steps in order; the first is the least risky.
	Plan []string

	// NextSafeCommands holds commands explicitly tagged non-destructive in
	// the source, verbatim. Never fabricated.
	NextSafeCommands []string

	// Notes carry auxiliary context. Additive only.
	Notes []string

	// MethodsApplied records which normalization/profile/guard steps ran.
	// Audit-only; does not affect rendering.
	MethodsApplied []string

	// Evidence maps output fields to input locators. Audit-only.
	Evidence []Evidence
}

// WithMethod returns a copy of r with the method ID appended, deduplicating.
func (r Result) WithMethod(method string) Result {
	for _, m := range r.MethodsApplied {
		if m == method {
			return r
		}
	}
	out := r
	out.MethodsApplied = append(append([]string{}, r.MethodsApplied...), method)
	return out
}

// WithEvidence returns a copy of r with the evidence anchors appended.
func (r Result) WithEvidence(ev ...Evidence) Result {
	out := r
	out.Evidence = append(append([]Evidence{}, r.Evidence...), ev...)
	return out
}

// Response is the assist.response.v0.1 wire shape. The audit fields are
// optional additions and never change rendered text.
type Response struct {
	AnchoredID       *string    `json:"anchored_id"`
	Confidence       Confidence `json:"confidence"`
	SafestNextStep   string     `json:"safest_next_step"`
	Plan             []string   `json:"plan"`
	NextSafeCommands []string   `json:"next_safe_commands"`
	Notes            []string   `json:"notes"`
	MethodsApplied   []string   `json:"methods_applied,omitempty"`
	Evidence         []Evidence `json:"evidence,omitempty"`
}

// ToResponse maps a Result to its serializable response object.
func (r Result) ToResponse() Response {
	var id *string
	if r.AnchoredID != "" {
		v := r.AnchoredID
		id = &v
	}
	return Response{
		AnchoredID:       id,
		Confidence:       r.Confidence,
		SafestNextStep:   r.SafestNextStep,
		Plan:             emptyIfNil(r.Plan),
		NextSafeCommands: emptyIfNil(r.NextSafeCommands),
		Notes:            emptyIfNil(r.Notes),
		MethodsApplied:   r.MethodsApplied,
		Evidence:         r.Evidence,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
