// Package gate implements the CI policy gate: scorecard loading, allowlist
// suppression with expiry, baseline regression rules, and reporting.
package gate

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/canonical"
	"github.com/a11ytools/a11y-assist/internal/severity"
)

// Finding is a single scorecard finding. Findings stay schemaless maps
// because upstream linters disagree on key names; helpers below tolerate
// the variants.
type Finding map[string]any

// ID extracts a finding ID, tolerating different key names.
func (f Finding) ID() string {
	for _, k := range []string{"id", "rule_id", "finding_id", "code"} {
		if v, ok := f[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	title, _ := f["title"].(string)
	if title == "" {
		title, _ = f["message"].(string)
	}
	if title == "" {
		title = "unknown"
	}
	if len(title) > 80 {
		title = title[:80]
	}
	return "UNKNOWN:" + title
}

// Severity returns the normalized severity of the finding.
func (f Finding) Severity() string {
	s, _ := f["severity"].(string)
	return severity.Normalize(s)
}

// Fingerprint computes a stable hash over the finding's identity fields.
func (f Finding) Fingerprint() (string, error) {
	identity := map[string]any{
		"id":       f["id"],
		"message":  f["message"],
		"location": f["location"],
	}
	return canonical.Digest(identity)
}

// Scorecard is a parsed scorecard with canonicalized findings.
type Scorecard struct {
	Raw      map[string]any
	Findings []Finding
}

// LoadScorecard reads a scorecard JSON file and canonicalizes it.
func LoadScorecard(path string) (*Scorecard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scorecard %s: %w", path, err)
	}

	var findings []Finding
	if list, ok := raw["findings"].([]any); ok {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				f := Finding(m)
				f["severity"] = f.Severity()
				findings = append(findings, f)
			}
		}
	}

	sc := &Scorecard{Raw: raw, Findings: findings}
	return sc.canonicalize()
}

// canonicalize dedupes findings by fingerprint (keeping the most severe)
// and sorts them deterministically.
func (s *Scorecard) canonicalize() (*Scorecard, error) {
	unique := make(map[string]Finding)
	for _, f := range s.Findings {
		copied := make(Finding, len(f)+2)
		for k, v := range f {
			copied[k] = v
		}
		if _, ok := copied["id"]; !ok {
			copied["id"] = copied.ID()
		}
		fp, _ := copied["fingerprint"].(string)
		if fp == "" {
			computed, err := copied.Fingerprint()
			if err != nil {
				return nil, err
			}
			fp = computed
			copied["fingerprint"] = fp
		}

		existing, ok := unique[fp]
		if !ok || severity.Rank(copied.Severity()) > severity.Rank(existing.Severity()) {
			unique[fp] = copied
		}
	}

	sorted := make([]Finding, 0, len(unique))
	for _, f := range unique {
		sorted = append(sorted, f)
	}
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := severity.Rank(sorted[i].Severity()), severity.Rank(sorted[j].Severity())
		if ri != rj {
			return ri > rj
		}
		if sorted[i].ID() != sorted[j].ID() {
			return sorted[i].ID() < sorted[j].ID()
		}
		fi, _ := sorted[i]["fingerprint"].(string)
		fj, _ := sorted[j]["fingerprint"].(string)
		return fi < fj
	})

	return &Scorecard{Raw: s.Raw, Findings: sorted}, nil
}

// Counts tallies findings per severity bucket.
func (s *Scorecard) Counts() map[string]int {
	out := make(map[string]int, len(severity.Order))
	for _, sev := range severity.Order {
		out[sev] = 0
	}
	for _, f := range s.Findings {
		out[f.Severity()]++
	}
	return out
}

// IDsAtOrAbove returns the sorted, deduped finding IDs at or above the
// threshold.
func (s *Scorecard) IDsAtOrAbove(threshold string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, f := range s.Findings {
		if severity.AtLeast(f.Severity(), threshold) && !seen[f.ID()] {
			seen[f.ID()] = true
			ids = append(ids, f.ID())
		}
	}
	sort.Strings(ids)
	return ids
}
