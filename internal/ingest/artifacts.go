package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/version"
)

// Advisory is one fix-oriented task covering every instance of a rule.
type Advisory struct {
	AdvisoryID     string             `json:"advisory_id"`
	RuleID         string             `json:"rule_id"`
	Severity       string             `json:"severity"`
	Confidence     any                `json:"confidence"`
	Title          string             `json:"title"`
	RecommendedFix string             `json:"recommended_fix"`
	Instances      []AdvisoryInstance `json:"instances"`
}

// AdvisoryInstance links one finding back to its evidence bundle.
type AdvisoryInstance struct {
	FindingID   any `json:"finding_id"`
	Location    any `json:"location"`
	EvidenceRef any `json:"evidence_ref"`
}

// BuildAdvisories groups findings by rule, most instances first, and
// attaches recommended fixes from the guidance table.
func BuildAdvisories(findings []Finding) []Advisory {
	byRule := make(map[string][]Finding)
	for _, f := range findings {
		id := f.ruleID()
		byRule[id] = append(byRule[id], f)
	}

	rules := make([]string, 0, len(byRule))
	for id := range byRule {
		rules = append(rules, id)
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(byRule[rules[i]]) != len(byRule[rules[j]]) {
			return len(byRule[rules[i]]) > len(byRule[rules[j]])
		}
		return rules[i] < rules[j]
	})

	advisories := make([]Advisory, 0, len(rules))
	for i, ruleID := range rules {
		instances := byRule[ruleID]
		first := instances[0]

		g, ok := defaultGuidance[ruleID]
		if !ok {
			g = guidance{
				Title: "Fix " + ruleID,
				Fix:   "Review the accessibility issue and apply appropriate fix.",
			}
		}

		sev := first.severity()
		if sev == "info" {
			if _, has := first["severity"]; !has {
				sev = "error"
			}
		}
		confidence := first["confidence"]
		if confidence == nil {
			confidence = 0.9
		}

		adv := Advisory{
			AdvisoryID:     fmt.Sprintf("adv-%04d", i+1),
			RuleID:         ruleID,
			Severity:       sev,
			Confidence:     confidence,
			Title:          g.Title,
			RecommendedFix: g.Fix,
		}
		for _, inst := range instances {
			adv.Instances = append(adv.Instances, AdvisoryInstance{
				FindingID:   inst["finding_id"],
				Location:    inst["location"],
				EvidenceRef: inst["evidence_ref"],
			})
		}
		advisories = append(advisories, adv)
	}
	return advisories
}

// Summary is the ingest-summary.json artifact shape.
type Summary struct {
	SourceEngine       string         `json:"source_engine"`
	SourceVersion      string         `json:"source_version"`
	IngestedAt         string         `json:"ingested_at"`
	Target             map[string]any `json:"target"`
	Summary            map[string]any `json:"summary"`
	ByRule             []RuleGroup    `json:"by_rule"`
	TopFiles           []FileGroup    `json:"top_files"`
	ProvenanceVerified *bool          `json:"provenance_verified,omitempty"`
	ProvenanceErrors   []string       `json:"provenance_errors,omitempty"`
}

// BuildSummary maps a result to its summary artifact.
func BuildSummary(result *Result) Summary {
	s := Summary{
		SourceEngine:  result.SourceEngine,
		SourceVersion: result.SourceVersion,
		IngestedAt:    result.IngestedAt,
		Target:        result.Target,
		Summary:       result.Summary,
		ByRule:        result.ByRule,
		TopFiles:      result.TopFiles,
	}
	if result.ProvenanceVerified {
		v := true
		s.ProvenanceVerified = &v
	} else if len(result.ProvenanceErrors) > 0 {
		v := false
		s.ProvenanceVerified = &v
		s.ProvenanceErrors = result.ProvenanceErrors
	}
	return s
}

// WriteSummary writes ingest-summary.json, creating the directory.
func WriteSummary(result *Result, outPath string) error {
	return writeJSON(outPath, BuildSummary(result))
}

// advisoriesFile is the advisories.json artifact shape.
type advisoriesFile struct {
	Schema      string `json:"schema"`
	GeneratedBy struct {
		Tool    string `json:"tool"`
		Command string `json:"command"`
		Version string `json:"version"`
	} `json:"generated_by"`
	Advisories []Advisory `json:"advisories"`
}

// WriteAdvisories writes advisories.json, creating the directory.
func WriteAdvisories(result *Result, outPath string) error {
	out := advisoriesFile{
		Schema:     "a11y-assist/advisories@v0.1",
		Advisories: BuildAdvisories(result.Findings),
	}
	out.GeneratedBy.Tool = "a11y-assist"
	out.GeneratedBy.Command = "ingest"
	out.GeneratedBy.Version = version.Version
	return writeJSON(outPath, out)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderTextSummary formats the human-readable ingest summary.
func RenderTextSummary(result *Result) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Source: %s v%s", result.SourceEngine, result.SourceVersion))

	targetPath := "unknown"
	if p, ok := result.Target["path"].(string); ok && p != "" {
		targetPath = p
	}
	lines = append(lines, fmt.Sprintf("Target: %s", targetPath), "")

	lines = append(lines, fmt.Sprintf(
		"Files scanned: %v  Errors: %v  Warnings: %v  Info: %v",
		summaryCount(result.Summary, "files_scanned"),
		summaryCount(result.Summary, "errors"),
		summaryCount(result.Summary, "warnings"),
		summaryCount(result.Summary, "info"),
	), "")

	if len(result.ByRule) > 0 {
		lines = append(lines, "By rule:")
		for _, rule := range capRules(result.ByRule, 5) {
			lines = append(lines, fmt.Sprintf("  %s: %d (%s)", rule.RuleID, rule.Count, rule.Severity))
		}
		lines = append(lines, "")
	}

	if len(result.TopFiles) > 0 {
		lines = append(lines, "Top files:")
		for _, f := range capFiles(result.TopFiles, 5) {
			lines = append(lines, fmt.Sprintf("  %s: %d errors, %d warnings", f.File, f.Errors, f.Warnings))
		}
		lines = append(lines, "")
	}

	if result.ProvenanceVerified {
		lines = append(lines, "Provenance: VERIFIED")
	} else if len(result.ProvenanceErrors) > 0 {
		lines = append(lines, fmt.Sprintf("Provenance: FAILED (%d errors)", len(result.ProvenanceErrors)))
		for _, err := range capErrors(result.ProvenanceErrors, 3) {
			lines = append(lines, "  - "+err)
		}
	}

	return strings.Join(lines, "\n")
}

// summaryCount tolerates the JSON number decoding (float64) of counts.
func summaryCount(summary map[string]any, key string) int {
	switch v := summary[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func capRules(s []RuleGroup, n int) []RuleGroup {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func capFiles(s []FileGroup, n int) []FileGroup {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func capErrors(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
