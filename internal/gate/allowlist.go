package gate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AllowlistEntry is a single time-bounded suppression. All fields are
// required: no permanent exceptions.
type AllowlistEntry struct {
	FindingID string `json:"finding_id" yaml:"finding_id"`
	Expires   string `json:"expires" yaml:"expires"`
	Reason    string `json:"reason" yaml:"reason"`
}

// Allowlist holds validated suppression entries.
type Allowlist struct {
	Entries []AllowlistEntry
}

// AllowlistError reports allowlist validation failures.
type AllowlistError struct {
	Errors []string
}

func (e *AllowlistError) Error() string {
	return "allowlist validation failed:\n" + strings.Join(e.Errors, "\n")
}

type allowlistFile struct {
	Allow []AllowlistEntry `json:"allow" yaml:"allow"`
}

// LoadAllowlist reads and validates an allowlist file. JSON and YAML are
// both accepted, keyed off the file extension.
func LoadAllowlist(path string) (*Allowlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file allowlistFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, &AllowlistError{Errors: []string{"(root): " + err.Error()}}
	}

	var errs []string
	entries := make([]AllowlistEntry, 0, len(file.Allow))
	for i, e := range file.Allow {
		path := fmt.Sprintf("allow.%d", i)
		if strings.TrimSpace(e.FindingID) == "" {
			errs = append(errs, path+".finding_id: required")
		}
		if strings.TrimSpace(e.Reason) == "" {
			errs = append(errs, path+".reason: required")
		}
		if _, perr := parseExpiry(e.Expires); perr != nil {
			errs = append(errs, path+".expires: "+perr.Error())
		}
		entries = append(entries, AllowlistEntry{
			FindingID: strings.TrimSpace(e.FindingID),
			Expires:   strings.TrimSpace(e.Expires),
			Reason:    strings.TrimSpace(e.Reason),
		})
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, &AllowlistError{Errors: errs}
	}
	return &Allowlist{Entries: entries}, nil
}

func parseExpiry(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("expected ISO date yyyy-mm-dd")
	}
	return t, nil
}

// SuppressedIDs returns the set of suppressed finding IDs.
func (a *Allowlist) SuppressedIDs() map[string]bool {
	ids := make(map[string]bool, len(a.Entries))
	for _, e := range a.Entries {
		ids[e.FindingID] = true
	}
	return ids
}

// ExpiredEntries returns entries whose expiry date is before today.
func (a *Allowlist) ExpiredEntries(today time.Time) []AllowlistEntry {
	var expired []AllowlistEntry
	day := today.Truncate(24 * time.Hour)
	for _, e := range a.Entries {
		exp, err := parseExpiry(e.Expires)
		if err != nil {
			continue
		}
		if exp.Before(day) {
			expired = append(expired, e)
		}
	}
	return expired
}
