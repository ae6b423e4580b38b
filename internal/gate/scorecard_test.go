package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScorecard(t *testing.T) {
	path := writeTempFile(t, "scorecard.json", `{
		"findings": [
			{"id": "A11Y.IMG.ALT", "severity": "serious", "message": "m1", "location": "a.html:1"},
			{"id": "A11Y.CONTRAST.TEXT", "severity": "moderate", "message": "m2", "location": "b.html:2"}
		]
	}`)

	sc, err := LoadScorecard(path)
	if err != nil {
		t.Fatalf("LoadScorecard() error = %v", err)
	}
	if len(sc.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, want 2", len(sc.Findings))
	}
	// Sorted most severe first.
	if sc.Findings[0].ID() != "A11Y.IMG.ALT" {
		t.Errorf("Findings[0].ID() = %q, want the serious finding first", sc.Findings[0].ID())
	}
}

func TestLoadScorecard_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, "bad.json", `{not json`)
	if _, err := LoadScorecard(path); err == nil {
		t.Error("LoadScorecard() error = nil, want parse error")
	}
}

func TestScorecard_DedupeKeepsHighestSeverity(t *testing.T) {
	// Identical identity fields, different severities: one survives, the
	// most severe one.
	path := writeTempFile(t, "dupes.json", `{
		"findings": [
			{"id": "A11Y.IMG.ALT", "severity": "moderate", "message": "m", "location": "a.html:1"},
			{"id": "A11Y.IMG.ALT", "severity": "critical", "message": "m", "location": "a.html:1"}
		]
	}`)

	sc, err := LoadScorecard(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, want 1 after dedupe", len(sc.Findings))
	}
	if got := sc.Findings[0].Severity(); got != "critical" {
		t.Errorf("surviving severity = %q, want critical", got)
	}
}

func TestScorecard_CountsAndThreshold(t *testing.T) {
	path := writeTempFile(t, "counts.json", `{
		"findings": [
			{"id": "A.CRIT", "severity": "critical", "message": "1", "location": "l1"},
			{"id": "B.SER", "severity": "error", "message": "2", "location": "l2"},
			{"id": "C.MOD", "severity": "warning", "message": "3", "location": "l3"},
			{"id": "D.INFO", "severity": "info", "message": "4", "location": "l4"}
		]
	}`)

	sc, err := LoadScorecard(path)
	if err != nil {
		t.Fatal(err)
	}

	counts := sc.Counts()
	want := map[string]int{"info": 1, "minor": 0, "moderate": 1, "serious": 1, "critical": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}

	ids := sc.IDsAtOrAbove("serious")
	if diff := cmp.Diff([]string{"A.CRIT", "B.SER"}, ids); diff != "" {
		t.Errorf("IDsAtOrAbove mismatch (-want +got):\n%s", diff)
	}
}

func TestFinding_IDFallbacks(t *testing.T) {
	tests := []struct {
		name string
		f    Finding
		want string
	}{
		{"id", Finding{"id": "A.B"}, "A.B"},
		{"rule_id", Finding{"rule_id": "R.1"}, "R.1"},
		{"finding_id", Finding{"finding_id": "F.1"}, "F.1"},
		{"code", Finding{"code": "C.1"}, "C.1"},
		{"title fallback", Finding{"title": "Missing alt text"}, "UNKNOWN:Missing alt text"},
		{"message fallback", Finding{"message": "broken"}, "UNKNOWN:broken"},
		{"nothing", Finding{}, "UNKNOWN:unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFinding_FingerprintStable(t *testing.T) {
	f1 := Finding{"id": "A.B", "message": "m", "location": "l", "severity": "serious"}
	f2 := Finding{"location": "l", "message": "m", "id": "A.B", "severity": "info"}

	fp1, err := f1.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fp2, err := f2.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fp1 != fp2 {
		t.Error("fingerprint must depend only on identity fields, not severity or map order")
	}
}
