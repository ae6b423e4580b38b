package profile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/a11ytools/a11y-assist/internal/assist"
	"github.com/a11ytools/a11y-assist/internal/guard"
)

// exportFailure is the canonical high-confidence fixture used across the
// transform tests.
func exportFailure() assist.Result {
	return assist.Result{
		AnchoredID:     "PAY.EXPORT.SFTP.AUTH",
		Confidence:     assist.ConfidenceHigh,
		SafestNextStep: "Follow the Fix steps in order, starting with the least risky check.",
		Plan: []string{
			"Verify credentials.",
			"Run: auth refresh --dry-run",
			"Retry the export.",
		},
		NextSafeCommands: []string{"auth refresh --dry-run"},
		Notes: []string{
			"Original title: Export failed",
			"This assist block is additive; it does not replace the tool's output.",
		},
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", name, err)
		}
		if p.Name != name || p.Apply == nil || p.Render == nil || p.MethodID == "" {
			t.Errorf("Lookup(%q) returned incomplete profile: %+v", name, p)
		}
	}

	_, err := Lookup("braille")
	if err == nil {
		t.Fatal("Lookup(unknown) error = nil, want error")
	}
	if !strings.Contains(err.Error(), "lowvision") {
		t.Errorf("Lookup(unknown) error %q should list valid names", err)
	}
}

func TestNames(t *testing.T) {
	want := []string{"cognitive-load", "dyslexia", "lowvision", "plain-language", "screen-reader"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

// Every transform must preserve the anchored ID and confidence, surface only
// commands from the base set, and produce output the guard accepts.
func TestTransforms_PreserveAnchorsAndPassGuard(t *testing.T) {
	baseText := "[ERROR] Export failed (ID: PAY.EXPORT.SFTP.AUTH). Verify credentials, run auth refresh --dry-run, retry the export."

	for _, conf := range []assist.Confidence{assist.ConfidenceHigh, assist.ConfidenceMedium} {
		for _, name := range Names() {
			t.Run(name+"/"+string(conf), func(t *testing.T) {
				base := exportFailure()
				base.Confidence = conf
				p, err := Lookup(name)
				if err != nil {
					t.Fatal(err)
				}

				got := p.Apply(base)

				if got.AnchoredID != base.AnchoredID {
					t.Errorf("AnchoredID = %q, want %q", got.AnchoredID, base.AnchoredID)
				}
				if got.Confidence != base.Confidence {
					t.Errorf("Confidence = %s, want %s", got.Confidence, base.Confidence)
				}

				ctx := guard.ContextFor(name, base.Confidence, "cli_error_json", base.NextSafeCommands)
				if _, err := guard.Validate(baseText, base, got, ctx); err != nil {
					t.Errorf("guard rejected %s transform: %v", name, err)
				}
			})
		}
	}
}

// The identity transform must change nothing; the guard re-validates it like
// any other profile.
func TestLowVision_Identity(t *testing.T) {
	base := exportFailure()
	got := applyLowVision(base)

	if diff := cmp.Diff(base, got); diff != "" {
		t.Errorf("applyLowVision changed the result (-base +got):\n%s", diff)
	}
}

func TestCognitiveLoad_Transform(t *testing.T) {
	base := exportFailure()
	base.Plan = []string{
		"Verify credentials (check the token page) and then retry",
		"Run: auth refresh --dry-run",
		"Update the config.",
		"A fourth step that must be dropped.",
	}
	got := applyCognitiveLoad(base)

	wantPlan := []string{
		"Verify credentials.",
		"auth refresh --dry-run.",
		"Update the config.",
	}
	if diff := cmp.Diff(wantPlan, got.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if got.SafestNextStep != "Follow the Fix steps in order." {
		t.Errorf("SafestNextStep = %q", got.SafestNextStep)
	}
	if len(got.NextSafeCommands) != 1 || got.NextSafeCommands[0] != "auth refresh --dry-run" {
		t.Errorf("NextSafeCommands = %v, want one verbatim command", got.NextSafeCommands)
	}
}

func TestCognitiveLoad_EmptyPlanFallback(t *testing.T) {
	base := exportFailure()
	base.Plan = nil
	got := applyCognitiveLoad(base)

	if len(got.Plan) != 1 || got.Plan[0] != "Follow the tool's Fix steps in order." {
		t.Errorf("Plan = %v, want the fixed fallback step", got.Plan)
	}
}

func TestCognitiveLoad_NoCommandsOnLow(t *testing.T) {
	base := exportFailure()
	base.Confidence = assist.ConfidenceLow
	got := applyCognitiveLoad(base)

	if len(got.NextSafeCommands) != 0 {
		t.Errorf("NextSafeCommands = %v, want none on Low confidence", got.NextSafeCommands)
	}
}

func TestScreenReader_Transform(t *testing.T) {
	base := exportFailure()
	base.SafestNextStep = "Check the CLI output (see above) -> verify the ID"
	got := applyScreenReader(base)

	want := "Check the command line output to verify the I D."
	if got.SafestNextStep != want {
		t.Errorf("SafestNextStep = %q, want %q", got.SafestNextStep, want)
	}
}

func TestScreenReader_LowConfidenceCapsSteps(t *testing.T) {
	base := exportFailure()
	base.Confidence = assist.ConfidenceLow
	base.NextSafeCommands = nil
	base.Plan = []string{"One.", "Two.", "Three.", "Four.", "Five."}
	got := applyScreenReader(base)

	if len(got.Plan) != 3 {
		t.Errorf("len(Plan) = %d, want 3 on Low confidence", len(got.Plan))
	}
	if len(got.NextSafeCommands) != 0 {
		t.Errorf("NextSafeCommands = %v, want none on Low confidence", got.NextSafeCommands)
	}
}

func TestScreenReader_StripsDollarPrefix(t *testing.T) {
	base := exportFailure()
	base.NextSafeCommands = []string{"$ auth refresh --dry-run"}
	got := applyScreenReader(base)

	if len(got.NextSafeCommands) != 1 || got.NextSafeCommands[0] != "auth refresh --dry-run" {
		t.Errorf("NextSafeCommands = %v, want dollar prefix stripped", got.NextSafeCommands)
	}
}

func TestDyslexia_Transform(t *testing.T) {
	base := exportFailure()
	base.SafestNextStep = "Check the **token** page (login required) → then retry"
	got := applyDyslexia(base)

	want := "Check the token page then retry"
	if got.SafestNextStep != want {
		t.Errorf("SafestNextStep = %q, want %q", got.SafestNextStep, want)
	}
	if diff := cmp.Diff(base.NextSafeCommands, got.NextSafeCommands); diff != "" {
		t.Errorf("commands must pass through verbatim (-want +got):\n%s", diff)
	}
}

func TestPlainLanguage_Transform(t *testing.T) {
	base := exportFailure()
	base.Plan = []string{
		"Verify the credentials, and retry the export",
		"Check the token which was issued last week",
		"Run: auth refresh --dry-run",
	}
	got := applyPlainLanguage(base)

	wantPlan := []string{
		"Verify the credentials.",
		"Check the token.",
		"Run: auth refresh --dry-run.",
	}
	if diff := cmp.Diff(wantPlan, got.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if len(got.NextSafeCommands) != 1 {
		t.Errorf("NextSafeCommands = %v, want at most one", got.NextSafeCommands)
	}
}

func TestRenderLowVision_Golden(t *testing.T) {
	got := renderLowVision(applyLowVision(exportFailure()))
	want := `ASSIST (Low Vision):
- Anchored to: PAY.EXPORT.SFTP.AUTH
- Confidence: High

Safest next step:
  Follow the Fix steps in order, starting with the least risky check.

Plan:
  1) Verify credentials.
  2) Run: auth refresh --dry-run
  3) Retry the export.

Next (SAFE):
  auth refresh --dry-run

Notes:
  - Original title: Export failed
  - This assist block is additive; it does not replace the tool's output.
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderLowVision_NoID_TruncatesPlan(t *testing.T) {
	r := assist.Result{
		Confidence:     assist.ConfidenceLow,
		SafestNextStep: "Re-run with more logging.",
		Plan:           []string{"a", "b", "c", "d", "e", "f"},
	}
	got := renderLowVision(r)

	if !strings.Contains(got, "- Anchored to: (none)") {
		t.Errorf("missing (none) anchor line:\n%s", got)
	}
	if !strings.Contains(got, "  5) e\n  ...") {
		t.Errorf("plan beyond five steps must truncate with ellipsis line:\n%s", got)
	}
	if strings.Contains(got, "6) f") {
		t.Errorf("sixth step must not render:\n%s", got)
	}
}

func TestRenderCognitiveLoad_Golden(t *testing.T) {
	got := renderCognitiveLoad(applyCognitiveLoad(exportFailure()))
	want := `ASSIST (Cognitive Load):
- Anchored to: PAY.EXPORT.SFTP.AUTH
- Confidence: High

Goal: Get back to a known-good state.

Safest next step:
  Follow the Fix steps in order.

Plan:
  First: Verify credentials.
  Next: auth refresh --dry-run.
  Last: Retry the export.

Next (SAFE):
  auth refresh --dry-run

Notes:
  - Original title: Export failed
  - This assist block is additive; it does not replace the tool's output.
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderScreenReader_Golden(t *testing.T) {
	got := renderScreenReader(applyScreenReader(exportFailure()))
	want := `ASSIST. Profile: Screen reader.
Anchored I D: PAY.EXPORT.SFTP.AUTH.
Confidence: High.

Summary: Export failed.

Safest next step: Follow the Fix steps in order, starting with the least risky check.

Steps:
Step 1: Verify credentials.
Step 2: auth refresh --dry-run.
Step 3: Retry the export.

Next safe command:
auth refresh --dry-run

Notes:
Original title: Export failed.
This assist block is additive.
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDyslexia_Golden(t *testing.T) {
	got := renderDyslexia(applyDyslexia(exportFailure()))
	want := `ASSIST (Dyslexia):

Anchored ID: PAY.EXPORT.SFTP.AUTH

Confidence: High

Safest next step:
  Follow the Fix steps in order, starting with the least risky check.

Plan:
  - Step 1: Verify credentials.
  - Step 2: Run: auth refresh --dry-run
  - Step 3: Retry the export.

Next safe command:
  auth refresh --dry-run

Notes:
  - Original title: Export failed
  - This assist block is additive; it does not replace the tool's output.
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPlainLanguage_Golden(t *testing.T) {
	got := renderPlainLanguage(applyPlainLanguage(exportFailure()))
	want := `ASSIST (Plain Language)
ID: PAY.EXPORT.SFTP.AUTH
Confidence: High

What to do next:
  Follow the Fix steps in order, starting with the least risky check.

Steps:
  1. Verify credentials.
  2. Run: auth refresh --dry-run.
  3. Retry the export.

Safe command:
  auth refresh --dry-run
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSuppressesCommandsOnLow(t *testing.T) {
	r := assist.Result{
		Confidence:       assist.ConfidenceLow,
		SafestNextStep:   "Re-run with more logging.",
		Plan:             []string{"Re-run the command."},
		NextSafeCommands: []string{"payctl export --dry-run"},
	}

	if got := renderDyslexia(r); strings.Contains(got, "payctl") {
		t.Errorf("dyslexia render must suppress commands on Low:\n%s", got)
	}
	if got := renderPlainLanguage(r); strings.Contains(got, "payctl") {
		t.Errorf("plain-language render must suppress commands on Low:\n%s", got)
	}
}
