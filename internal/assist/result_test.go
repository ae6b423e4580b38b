package assist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfidenceRank(t *testing.T) {
	if !(ConfidenceLow.Rank() < ConfidenceMedium.Rank() && ConfidenceMedium.Rank() < ConfidenceHigh.Rank()) {
		t.Error("confidence ranks must order Low < Medium < High")
	}
	if Confidence("bogus").Rank() != ConfidenceLow.Rank() {
		t.Error("unknown confidence must rank as Low")
	}
}

func TestWithMethod(t *testing.T) {
	r := Result{MethodsApplied: []string{MethodNormalizeCliError}}

	r2 := r.WithMethod(MethodProfileLowVision)
	want := []string{MethodNormalizeCliError, MethodProfileLowVision}
	if diff := cmp.Diff(want, r2.MethodsApplied); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Idempotent: appending the same method again is a no-op.
	r3 := r2.WithMethod(MethodProfileLowVision)
	if diff := cmp.Diff(want, r3.MethodsApplied); diff != "" {
		t.Errorf("duplicate append (-want +got):\n%s", diff)
	}

	// The receiver is never mutated.
	if len(r.MethodsApplied) != 1 {
		t.Errorf("receiver mutated: %v", r.MethodsApplied)
	}
}

func TestWithEvidence(t *testing.T) {
	r := Result{Evidence: []Evidence{{Field: "plan[0]", Source: "cli.error.fix[0]"}}}
	r2 := r.WithEvidence(Evidence{Field: "plan[1]", Source: "cli.error.fix[1]"})

	if len(r2.Evidence) != 2 {
		t.Errorf("len(Evidence) = %d, want 2", len(r2.Evidence))
	}
	if len(r.Evidence) != 1 {
		t.Errorf("receiver mutated: %v", r.Evidence)
	}
}

func TestEvidenceForPlan(t *testing.T) {
	got := EvidenceForPlan([]string{"a", "b"}, "cli.error.fix")
	want := []Evidence{
		{Field: "plan[0]", Source: "cli.error.fix[0]"},
		{Field: "plan[1]", Source: "cli.error.fix[1]"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToResponse(t *testing.T) {
	r := Result{
		AnchoredID:     "PAY.EXPORT.SFTP.AUTH",
		Confidence:     ConfidenceHigh,
		SafestNextStep: "step",
	}
	resp := r.ToResponse()

	if resp.AnchoredID == nil || *resp.AnchoredID != "PAY.EXPORT.SFTP.AUTH" {
		t.Errorf("AnchoredID = %v", resp.AnchoredID)
	}
	// Nil slices serialize as [] rather than null.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"plan":[]`, `"next_safe_commands":[]`, `"notes":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("response JSON missing %s:\n%s", want, data)
		}
	}
}

func TestToResponse_NoID(t *testing.T) {
	resp := Result{Confidence: ConfidenceLow}.ToResponse()
	if resp.AnchoredID != nil {
		t.Errorf("AnchoredID = %v, want null for anonymous results", *resp.AnchoredID)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"anchored_id":null`) {
		t.Errorf("response JSON must carry an explicit null:\n%s", data)
	}
}
