package normalize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

const rawWithID = `[ERROR] Export failed (ID: PAY.EXPORT.SFTP.AUTH)
What:
  The nightly export did not complete.
Why:
  The SFTP token expired.
Fix:
  Verify credentials.
  Run: payctl export --dry-run
`

func TestParseRaw_FullMessage(t *testing.T) {
	p := ParseRaw(rawWithID)

	if p.ID != "PAY.EXPORT.SFTP.AUTH" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Status != "ERROR" {
		t.Errorf("Status = %q, want ERROR", p.Status)
	}
	if diff := cmp.Diff([]string{"The SFTP token expired."}, p.Blocks.Why); diff != "" {
		t.Errorf("Why mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Verify credentials.", "Run: payctl export --dry-run"}, p.Blocks.Fix); diff != "" {
		t.Errorf("Fix mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRaw_NoID(t *testing.T) {
	p := ParseRaw("[ERROR] Failed\nWhy:\n  bad config\nFix:\n  check config")

	if p.ID != "" {
		t.Errorf("ID = %q, want empty", p.ID)
	}
	if p.Status != "ERROR" {
		t.Errorf("Status = %q", p.Status)
	}
	if diff := cmp.Diff([]string{"check config"}, p.Blocks.Fix); diff != "" {
		t.Errorf("Fix mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRaw_StatusFirstLineOnly(t *testing.T) {
	p := ParseRaw("some banner\n[ERROR] Failed later\n")
	if p.Status != "UNKNOWN" {
		t.Errorf("Status = %q, want UNKNOWN for non-leading status line", p.Status)
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"prefix (ID: A.B.C) suffix", "A.B.C"},
		{"(ID: PAY.EXPORT.SFTP.AUTH)", "PAY.EXPORT.SFTP.AUTH"},
		{"(ID: lowercase.bad)", ""},
		{"(ID: SINGLEWORD)", ""},
		{"no id here", ""},
		{"(ID: A.B) then (ID: C.D)", "A.B"},
	}
	for _, tt := range tests {
		if got := ExtractID(tt.in); got != tt.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractBlocks_Boundaries(t *testing.T) {
	lines := []string{
		"Fix:",
		"  first step",
		"",
		"  second step",
		"unindented line ends the block",
		"  not part of fix",
	}
	blocks := extractBlocks(lines)

	if diff := cmp.Diff([]string{"first step", "second step"}, blocks.Fix); diff != "" {
		t.Errorf("Fix mismatch (-want +got):\n%s", diff)
	}
}

func TestDryRunCommands_CappedAtThree(t *testing.T) {
	plan := []string{
		"a --dry-run", "plain step", "b --dry-run", "c --dry-run", "d --dry-run",
	}
	got := dryRunCommands(plan)
	want := []string{"a --dry-run", "b --dry-run", "c --dry-run"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRawText_WithID(t *testing.T) {
	res := FromRawText(rawWithID)

	if res.Confidence != assist.ConfidenceMedium {
		t.Errorf("Confidence = %s, want Medium", res.Confidence)
	}
	if res.AnchoredID != "PAY.EXPORT.SFTP.AUTH" {
		t.Errorf("AnchoredID = %q", res.AnchoredID)
	}
	if diff := cmp.Diff([]string{"Verify credentials.", "Run: payctl export --dry-run"}, res.Plan); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Run: payctl export --dry-run"}, res.NextSafeCommands); diff != "" {
		t.Errorf("NextSafeCommands mismatch (-want +got):\n%s", diff)
	}

	wantEvidence := []assist.Evidence{
		{Field: "safest_next_step", Source: "raw_text:Fix:1"},
		{Field: "plan[0]", Source: "raw_text:Fix:1"},
		{Field: "plan[1]", Source: "raw_text:Fix:2"},
		{Field: "next_safe_commands[0]", Source: "raw_text:Fix:2"},
	}
	if diff := cmp.Diff(wantEvidence, res.Evidence); diff != "" {
		t.Errorf("Evidence mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRawText_NoID(t *testing.T) {
	res := FromRawText("[ERROR] Failed\nWhy:\n  bad config\nFix:\n  check config")

	if res.Confidence != assist.ConfidenceLow {
		t.Errorf("Confidence = %s, want Low", res.Confidence)
	}
	if res.AnchoredID != "" {
		t.Errorf("AnchoredID = %q, want empty: IDs are never invented", res.AnchoredID)
	}
	if len(res.Notes) == 0 || !strings.Contains(res.Notes[0], "No (ID: ...) found") {
		t.Errorf("Notes = %v, want the missing-ID note", res.Notes)
	}
}

func TestFromRawText_NoFixFallbackPlan(t *testing.T) {
	res := FromRawText("something went wrong\n")

	if len(res.Plan) != 3 {
		t.Errorf("len(Plan) = %d, want the 3-step fallback", len(res.Plan))
	}
	if len(res.Evidence) != 0 {
		t.Errorf("Evidence = %v, want none for the fallback plan", res.Evidence)
	}
	if len(res.NextSafeCommands) != 0 {
		t.Errorf("NextSafeCommands = %v, want none", res.NextSafeCommands)
	}
}

func TestFromRawText_FlagsInvisibleCharacters(t *testing.T) {
	res := FromRawText("[ERROR] Failed\u200B here\n")

	found := false
	for _, n := range res.Notes {
		if strings.Contains(n, "U+200B") {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want a control-character note naming U+200B", res.Notes)
	}
}

func TestFromRawText_Deterministic(t *testing.T) {
	first := FromRawText(rawWithID)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, FromRawText(rawWithID)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestFromLastLog(t *testing.T) {
	res := FromLastLog(rawWithID)
	if res.Confidence != assist.ConfidenceMedium {
		t.Errorf("Confidence = %s, want Medium", res.Confidence)
	}
	if res.SafestNextStep != "Start with the first Fix step. Prefer non-destructive checks." {
		t.Errorf("SafestNextStep = %q", res.SafestNextStep)
	}
}

func TestFromLastLog_NoID(t *testing.T) {
	res := FromLastLog("plain failure output\n")

	if res.Confidence != assist.ConfidenceLow {
		t.Errorf("Confidence = %s, want Low", res.Confidence)
	}
	if len(res.Plan) != 2 {
		t.Errorf("len(Plan) = %d, want the 2-step fallback", len(res.Plan))
	}
	if len(res.Notes) == 0 || res.Notes[0] != "No (ID: ...) found in last.log." {
		t.Errorf("Notes = %v", res.Notes)
	}
}

func TestEmptyLastLog(t *testing.T) {
	res := EmptyLastLog()

	if res.Confidence != assist.ConfidenceLow {
		t.Errorf("Confidence = %s, want Low", res.Confidence)
	}
	if res.AnchoredID != "" {
		t.Errorf("AnchoredID = %q, want empty", res.AnchoredID)
	}
	if len(res.NextSafeCommands) != 0 {
		t.Errorf("NextSafeCommands = %v, want none", res.NextSafeCommands)
	}
	if res.Notes[0] != "No last.log found." {
		t.Errorf("Notes[0] = %q", res.Notes[0])
	}
}

func TestControlCharNotes(t *testing.T) {
	if notes := controlCharNotes("clean text\nwith\ttabs\r\n"); len(notes) != 0 {
		t.Errorf("notes = %v, want none for clean text", notes)
	}

	notes := controlCharNotes("bad\u200Bzero\uFEFFwidth\u200B")
	if len(notes) != 1 {
		t.Fatalf("notes = %v, want exactly one", notes)
	}
	if !strings.Contains(notes[0], "U+200B") || !strings.Contains(notes[0], "U+FEFF") {
		t.Errorf("note = %q, want both codepoints listed once", notes[0])
	}
	if strings.Count(notes[0], "U+200B") != 1 {
		t.Errorf("note = %q, duplicate codepoints must be deduped", notes[0])
	}
}
