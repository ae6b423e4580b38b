package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/a11ytools/a11y-assist/internal/version"
)

// Evidence payload generation: a structured record of a gate run suitable
// for attaching to CI artifacts.

// Artifact names an input or output file attached to the run.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// HashedArtifact is an artifact plus its content digest.
type HashedArtifact struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// GateInfo summarizes the gate decision inside the payload.
type GateInfo struct {
	Decision string         `json:"decision"`
	ExitCode int            `json:"exit_code"`
	FailOn   string         `json:"fail_on"`
	Counts   map[string]int `json:"counts"`
	Deltas   map[string]int `json:"deltas"`
}

// BlockingFinding is an enriched blocking finding in the payload.
type BlockingFinding struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Severity    string `json:"severity"`
	Message     any    `json:"message"`
	Location    any    `json:"location"`
	HelpURL     string `json:"help_url,omitempty"`
	HelpHint    string `json:"help_hint,omitempty"`
}

// EvidencePayload is the full run record.
type EvidencePayload struct {
	Tool        string            `json:"tool"`
	ToolVersion string            `json:"tool_version"`
	RunID       string            `json:"run_id"`
	Timestamp   string            `json:"timestamp"`
	Repo        string            `json:"repo,omitempty"`
	CommitSHA   string            `json:"commit_sha,omitempty"`
	Workflow    string            `json:"workflow,omitempty"`
	Gate        GateInfo          `json:"gate"`
	Blocking    []BlockingFinding `json:"blocking"`
	Artifacts   []HashedArtifact  `json:"artifacts"`
}

// sha256File hashes a file, returning "" when it cannot be read.
func sha256File(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BuildEvidencePayload assembles the run record. Repo metadata comes from
// the GITHUB_* environment when present.
func BuildEvidencePayload(result Result, scorecard *Scorecard, failOn string, artifacts []Artifact, now time.Time) EvidencePayload {
	exitCode := 0
	decision := "pass"
	if !result.OK {
		exitCode = 3
		decision = "fail"
	}

	info := GateInfo{
		Decision: decision,
		ExitCode: exitCode,
		FailOn:   failOn,
		Counts:   result.CurrentCounts,
		Deltas:   map[string]int{},
	}
	if result.BaselineCounts != nil {
		for sev, count := range result.CurrentCounts {
			if diff := count - result.BaselineCounts[sev]; diff != 0 {
				info.Deltas[sev] = diff
			}
		}
	}

	blockingIDs := make(map[string]bool, len(result.CurrentBlockingIDs))
	for _, id := range result.CurrentBlockingIDs {
		blockingIDs[id] = true
	}

	var blocking []BlockingFinding
	for _, f := range scorecard.Findings {
		fid := f.ID()
		if !blockingIDs[fid] {
			continue
		}
		fp, _ := f.Fingerprint()
		item := BlockingFinding{
			ID:          fid,
			Fingerprint: fp,
			Severity:    f.Severity(),
			Message:     f["message"],
			Location:    f["location"],
		}
		if help, ok := GetHelp(fid); ok {
			item.HelpURL = help.URL
			item.HelpHint = help.Hint
		}
		blocking = append(blocking, item)
	}

	var hashed []HashedArtifact
	for _, art := range artifacts {
		if art.Path == "" {
			continue
		}
		if h := sha256File(art.Path); h != "" {
			hashed = append(hashed, HashedArtifact{Kind: art.Kind, Path: art.Path, SHA256: h})
		}
	}

	return EvidencePayload{
		Tool:        "a11y-assist",
		ToolVersion: version.Version,
		RunID:       uuid.NewString(),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Repo:        os.Getenv("GITHUB_REPOSITORY"),
		CommitSHA:   os.Getenv("GITHUB_SHA"),
		Workflow:    os.Getenv("GITHUB_WORKFLOW"),
		Gate:        info,
		Blocking:    blocking,
		Artifacts:   hashed,
	}
}
