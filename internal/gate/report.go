package gate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/a11ytools/a11y-assist/internal/severity"
)

// CliMessage is the What/Why/Fix contract every human-facing message
// follows: one status line with an ID, then three labeled blocks.
type CliMessage struct {
	Status string // OK, WARN, or ERROR
	ID     string
	Title  string
	What   []string
	Why    []string
	Fix    []string
}

// RenderMessage formats a CliMessage in the low-vision-first layout.
func RenderMessage(msg CliMessage) string {
	parts := []string{
		fmt.Sprintf("[%s] %s (ID: %s)", msg.Status, msg.Title, msg.ID),
		"",
		"What:",
	}
	for _, x := range msg.What {
		parts = append(parts, "  "+x)
	}
	parts = append(parts, "", "Why:")
	for _, x := range msg.Why {
		parts = append(parts, "  "+x)
	}
	parts = append(parts, "", "Fix:")
	for _, x := range msg.Fix {
		parts = append(parts, "  "+x)
	}
	return strings.Join(parts, "\n") + "\n"
}

// WriteMessage renders msg to w with the status token color-accented.
// Color is an accent only: the text carries all meaning and fatih/color
// disables itself on non-terminals.
func WriteMessage(w io.Writer, msg CliMessage) {
	rendered := RenderMessage(msg)
	token := "[" + msg.Status + "]"
	colored := statusColor(msg.Status).Sprint(token)
	fmt.Fprint(w, strings.Replace(rendered, token, colored, 1))
}

func statusColor(status string) *color.Color {
	switch status {
	case "OK":
		return color.New(color.FgGreen, color.Bold)
	case "WARN":
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// formatCounts lists per-severity counts, most severe first, with deltas
// against the baseline when one exists.
func formatCounts(counts, baseline map[string]int) []string {
	var lines []string
	for i := len(severity.Order) - 1; i >= 0; i-- {
		sev := severity.Order[i]
		count := counts[sev]
		baseCount := 0
		if baseline != nil {
			baseCount = baseline[sev]
		}
		delta := count - baseCount

		deltaStr := ""
		if baseline != nil && delta != 0 {
			sign := ""
			if delta > 0 {
				sign = "+"
			}
			deltaStr = fmt.Sprintf(" (%s%d)", sign, delta)
		}
		if count > 0 || (baseline != nil && baseCount > 0) {
			lines = append(lines, fmt.Sprintf("%s%s: %d%s", strings.ToUpper(sev[:1]), sev[1:], count, deltaStr))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "No findings.")
	}
	return lines
}

// ReportMessage builds the pass/fail CliMessage for a gate result.
func ReportMessage(result Result) CliMessage {
	countsLines := formatCounts(result.CurrentCounts, result.BaselineCounts)

	if result.OK {
		return CliMessage{
			Status: "OK",
			ID:     "A11Y.CI.GATE.PASS",
			Title:  "Accessibility gate passed",
			What:   append([]string{"No policy violations detected."}, countsLines...),
			Why:    []string{"Current findings meet the configured threshold."},
			Fix:    []string{"Proceed with merge/release."},
		}
	}

	what := []string{"Accessibility policy violations were detected.", "", "Summary:"}
	for _, line := range countsLines {
		what = append(what, "  "+line)
	}

	why := append([]string{}, result.Reasons...)
	if len(why) == 0 {
		why = []string{"Gate policy was not satisfied."}
	}

	fix := []string{
		"Address the listed findings or update the baseline.",
		"Run local check: a11y-assist gate --current <path>",
	}
	if len(result.CurrentBlockingIDs) > 0 {
		fix = append(fix, "", "Blocking IDs (Top 10):")
		for _, bid := range capIDs(result.CurrentBlockingIDs, 10) {
			if info, ok := GetHelp(bid); ok {
				fix = append(fix,
					"  - "+bid,
					"    Fix: "+info.Hint,
					"    Docs: "+info.URL,
				)
			} else {
				fix = append(fix, "- "+bid)
			}
		}
		if len(result.CurrentBlockingIDs) > 10 {
			fix = append(fix, fmt.Sprintf("... and %d more.", len(result.CurrentBlockingIDs)-10))
		}
	}
	if len(result.NewBlockingIDs) > 0 {
		fix = append(fix, "", "New Regression IDs (Top 10):")
		for _, bid := range capIDs(result.NewBlockingIDs, 10) {
			fix = append(fix, "- "+bid)
		}
	}

	return CliMessage{
		Status: "ERROR",
		ID:     "A11Y.CI.GATE.FAIL",
		Title:  "Accessibility gate failed",
		What:   what,
		Why:    why,
		Fix:    fix,
	}
}

func capIDs(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

// blockingDetail enriches a blocking ID with help registry data.
type blockingDetail struct {
	ID       string  `json:"id"`
	HelpURL  *string `json:"help_url"`
	HelpHint *string `json:"help_hint"`
}

// JSONReport is the machine-readable gate report.
type JSONReport struct {
	Gate           string         `json:"gate"`
	Timestamp      string         `json:"timestamp"`
	Counts         map[string]int `json:"counts"`
	BaselineCounts map[string]int `json:"baseline_counts"`
	Reasons        []string       `json:"reasons"`
	Blocking       struct {
		CurrentIDs []string         `json:"current_ids"`
		Details    []blockingDetail `json:"details"`
		NewIDs     []string         `json:"new_ids"`
	} `json:"blocking"`
}

// WriteJSONReport emits the machine-readable report to w.
func WriteJSONReport(w io.Writer, result Result, now time.Time) error {
	report := JSONReport{
		Gate:           "FAIL",
		Timestamp:      now.UTC().Format(time.RFC3339),
		Counts:         result.CurrentCounts,
		BaselineCounts: result.BaselineCounts,
		Reasons:        result.Reasons,
	}
	if result.OK {
		report.Gate = "PASS"
	}
	if report.Reasons == nil {
		report.Reasons = []string{}
	}
	report.Blocking.CurrentIDs = emptyIfNil(result.CurrentBlockingIDs)
	report.Blocking.NewIDs = emptyIfNil(result.NewBlockingIDs)
	report.Blocking.Details = make([]blockingDetail, 0, len(result.CurrentBlockingIDs))
	for _, bid := range result.CurrentBlockingIDs {
		detail := blockingDetail{ID: bid}
		if info, ok := GetHelp(bid); ok {
			url, hint := info.URL, info.Hint
			detail.HelpURL = &url
			detail.HelpHint = &hint
		}
		report.Blocking.Details = append(report.Blocking.Details, detail)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
