// Package ingest imports findings from a11y-evidence-engine and derives
// two artifacts: a normalized summary and fix-oriented advisories with
// evidence links. Provenance digests are verified on request.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/a11ytools/a11y-assist/internal/canonical"
)

// guidance pairs a task title with its recommended fix per rule.
type guidance struct {
	Title string
	Fix   string
}

var defaultGuidance = map[string]guidance{
	"html.document.missing_lang": {
		Title: "Add language attribute to document",
		Fix:   `Add lang="en" (or correct locale) to the <html> element.`,
	},
	"html.img.missing_alt": {
		Title: "Add alt text to images",
		Fix:   `Add a meaningful alt attribute, or mark decorative images with alt="" and role="presentation".`,
	},
	"html.form_control.missing_label": {
		Title: "Associate labels with form controls",
		Fix:   "Add <label for> association, or use aria-label/aria-labelledby.",
	},
	"html.interactive.missing_name": {
		Title: "Add accessible names to interactive elements",
		Fix:   "Ensure text content, aria-label, aria-labelledby, or title attribute is present.",
	},
}

// Finding is a single engine finding, kept schemaless: the engine schema
// evolves faster than this importer.
type Finding map[string]any

func (f Finding) str(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f Finding) ruleID() string {
	if s := f.str("rule_id"); s != "" {
		return s
	}
	return "unknown"
}

func (f Finding) severity() string {
	if s := f.str("severity"); s != "" {
		return s
	}
	return "info"
}

// Result is the outcome of an ingest run.
type Result struct {
	SourceEngine       string
	SourceVersion      string
	IngestedAt         string
	Target             map[string]any
	Summary            map[string]any
	ByRule             []RuleGroup
	TopFiles           []FileGroup
	Findings           []Finding
	ProvenanceVerified bool
	ProvenanceErrors   []string
}

// RuleGroup counts findings per rule.
type RuleGroup struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// FileGroup counts findings per file.
type FileGroup struct {
	File     string `json:"file"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Info     int    `json:"info"`
}

// LoadFindings reads and structurally validates findings.json.
func LoadFindings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("findings file not found: %s", path)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON in findings file: %w", err)
	}

	var missing []string
	for _, k := range []string{"engine", "version", "summary", "findings"} {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, ok := obj["findings"].([]any); !ok {
		return nil, fmt.Errorf("'findings' must be an array")
	}
	return obj, nil
}

// verifyProvenance checks one finding's evidence bundle: all referenced
// files exist and the recorded digest matches the canonical evidence.
func verifyProvenance(f Finding, baseDir string) error {
	fid := f.str("finding_id")
	if fid == "" {
		fid = "unknown"
	}

	ref, ok := f["evidence_ref"].(map[string]any)
	if !ok {
		return fmt.Errorf("%s: missing evidence_ref", fid)
	}

	paths := make(map[string]string, 3)
	for _, key := range []string{"record", "digest", "envelope"} {
		p, _ := ref[key].(string)
		if p == "" {
			return fmt.Errorf("%s: missing %s reference", fid, key)
		}
		full := filepath.Join(baseDir, p)
		if _, err := os.Stat(full); err != nil {
			return fmt.Errorf("%s: file not found: %s", fid, p)
		}
		paths[key] = full
	}

	record, err := readJSON(paths["record"])
	if err != nil {
		return fmt.Errorf("%s: error verifying provenance: %v", fid, err)
	}
	digestRecord, err := readJSON(paths["digest"])
	if err != nil {
		return fmt.Errorf("%s: error verifying provenance: %v", fid, err)
	}

	evidence, err := recordContent(record)
	if err != nil {
		return fmt.Errorf("%s: %v", fid, err)
	}
	expected, err := recordDigest(digestRecord)
	if err != nil {
		return fmt.Errorf("%s: %v", fid, err)
	}

	actual, err := canonical.Digest(evidence)
	if err != nil {
		return fmt.Errorf("%s: error verifying provenance: %v", fid, err)
	}
	if actual != expected {
		return fmt.Errorf("%s: digest mismatch (expected %s..., got %s...)",
			fid, expected[:16], actual[:16])
	}
	return nil
}

func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// recordContent extracts the evidence content from a prov.record.v0.1
// bundle's first output artifact.
func recordContent(record map[string]any) (any, error) {
	prov, _ := record["prov.record.v0.1"].(map[string]any)
	outputs, _ := prov["outputs"].([]any)
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no outputs in record")
	}
	first, _ := outputs[0].(map[string]any)
	artifact, _ := first["artifact.v0.1"].(map[string]any)
	content, ok := artifact["content"]
	if !ok {
		return nil, fmt.Errorf("no evidence content in record")
	}
	return content, nil
}

func recordDigest(record map[string]any) (string, error) {
	prov, _ := record["prov.record.v0.1"].(map[string]any)
	outputs, _ := prov["outputs"].([]any)
	if len(outputs) == 0 {
		return "", fmt.Errorf("no outputs in digest record")
	}
	first, _ := outputs[0].(map[string]any)
	artifact, _ := first["artifact.v0.1"].(map[string]any)
	digest, _ := artifact["digest"].(map[string]any)
	value, _ := digest["value"].(string)
	if value == "" {
		return "", fmt.Errorf("no digest value found")
	}
	return value, nil
}

// groupByRule counts findings per rule, most frequent first.
func groupByRule(findings []Finding) []RuleGroup {
	byRule := make(map[string]*RuleGroup)
	for _, f := range findings {
		id := f.ruleID()
		if g, ok := byRule[id]; ok {
			g.Count++
		} else {
			byRule[id] = &RuleGroup{RuleID: id, Severity: f.severity(), Count: 1}
		}
	}
	out := make([]RuleGroup, 0, len(byRule))
	for _, g := range byRule {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// groupByFile counts findings per file, worst files first, top 10 only.
func groupByFile(findings []Finding) []FileGroup {
	byFile := make(map[string]*FileGroup)
	for _, f := range findings {
		file := "unknown"
		if loc, ok := f["location"].(map[string]any); ok {
			if p, ok := loc["file"].(string); ok && p != "" {
				file = p
			}
		}
		g, ok := byFile[file]
		if !ok {
			g = &FileGroup{File: file}
			byFile[file] = g
		}
		switch f.severity() {
		case "error":
			g.Errors++
		case "warning":
			g.Warnings++
		default:
			g.Info++
		}
	}
	out := make([]FileGroup, 0, len(byFile))
	for _, g := range byFile {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Errors != out[j].Errors {
			return out[i].Errors > out[j].Errors
		}
		return out[i].File < out[j].File
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// Options controls an ingest run.
type Options struct {
	VerifyProvenance bool
	MinSeverity      string // info, warning, or error
}

var ingestSeverityRank = map[string]int{"info": 0, "warning": 1, "error": 2}

// Run ingests findings.json from path.
func Run(path string, opts Options, now time.Time) (*Result, error) {
	data, err := LoadFindings(path)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(path)

	minLevel := ingestSeverityRank[opts.MinSeverity]
	var filtered []Finding
	for _, item := range data["findings"].([]any) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		f := Finding(m)
		if ingestSeverityRank[f.severity()] >= minLevel {
			filtered = append(filtered, f)
		}
	}

	var provErrors []string
	provVerified := false
	if opts.VerifyProvenance {
		provVerified = true
		for _, f := range filtered {
			if err := verifyProvenance(f, baseDir); err != nil {
				provErrors = append(provErrors, err.Error())
				provVerified = false
			}
		}
	}

	engine, _ := data["engine"].(string)
	if engine == "" {
		engine = "unknown"
	}
	sourceVersion, _ := data["version"].(string)
	if sourceVersion == "" {
		sourceVersion = "unknown"
	}
	target, _ := data["target"].(map[string]any)
	summary, _ := data["summary"].(map[string]any)

	return &Result{
		SourceEngine:       engine,
		SourceVersion:      sourceVersion,
		IngestedAt:         now.UTC().Format(time.RFC3339),
		Target:             target,
		Summary:            summary,
		ByRule:             groupByRule(filtered),
		TopFiles:           groupByFile(filtered),
		Findings:           filtered,
		ProvenanceVerified: provVerified,
		ProvenanceErrors:   provErrors,
	}, nil
}
