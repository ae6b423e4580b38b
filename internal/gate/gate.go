package gate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/a11ytools/a11y-assist/internal/severity"
)

// Result is the outcome of a gate evaluation.
type Result struct {
	OK                 bool
	Reasons            []string
	CurrentBlockingIDs []string
	NewBlockingIDs     []string
	CurrentCounts      map[string]int
	BaselineCounts     map[string]int // nil when no baseline was given
}

// applyAllowlist returns a scorecard with suppressed findings removed.
func applyAllowlist(s *Scorecard, suppressed map[string]bool) *Scorecard {
	if len(suppressed) == 0 {
		return s
	}
	var kept []Finding
	for _, f := range s.Findings {
		if !suppressed[f.ID()] {
			kept = append(kept, f)
		}
	}
	return &Scorecard{Raw: s.Raw, Findings: kept}
}

func countAtOrAbove(counts map[string]int, threshold string) int {
	total := 0
	for sev, n := range counts {
		if severity.AtLeast(sev, threshold) {
			total += n
		}
	}
	return total
}

// Evaluate runs the policy gate:
//
//  1. Findings at/above the fail-on threshold fail.
//  2. With a baseline, a regression in the at/above count fails.
//  3. With a baseline, new finding IDs at/above the threshold fail.
//  4. Expired allowlist entries fail; suppressions are time-bounded.
func Evaluate(current, baseline *Scorecard, failOn string, allowlist *Allowlist, now time.Time) Result {
	failOn = severity.Normalize(failOn)

	suppressed := map[string]bool{}
	var reasons []string

	if allowlist != nil {
		suppressed = allowlist.SuppressedIDs()
		if expired := allowlist.ExpiredEntries(now); len(expired) > 0 {
			ids := make([]string, len(expired))
			for i, e := range expired {
				ids[i] = e.FindingID
			}
			reasons = append(reasons,
				"Allowlist contains expired entries (must be renewed or removed): "+strings.Join(ids, ", "))
		}
	}

	cur := applyAllowlist(current, suppressed)
	curCounts := cur.Counts()

	curBlocking := cur.IDsAtOrAbove(failOn)
	if len(curBlocking) > 0 {
		reasons = append(reasons,
			fmt.Sprintf("Current run has %d finding(s) at or above '%s'.", len(curBlocking), failOn))
	}

	var newBlocking []string
	var baseCounts map[string]int
	if baseline != nil {
		base := applyAllowlist(baseline, suppressed)
		baseCounts = base.Counts()

		curN := countAtOrAbove(curCounts, failOn)
		baseN := countAtOrAbove(baseCounts, failOn)
		if curN > baseN {
			reasons = append(reasons,
				fmt.Sprintf("Regression: current has %d finding(s) at/above '%s' vs baseline %d.", curN, failOn, baseN))
		}

		baseIDs := make(map[string]bool)
		for _, id := range base.IDsAtOrAbove(failOn) {
			baseIDs[id] = true
		}
		for _, id := range curBlocking {
			if !baseIDs[id] {
				newBlocking = append(newBlocking, id)
			}
		}
		sort.Strings(newBlocking)
		if len(newBlocking) > 0 {
			shown := newBlocking
			suffix := ""
			if len(shown) > 20 {
				shown = shown[:20]
				suffix = " ..."
			}
			reasons = append(reasons,
				fmt.Sprintf("New finding(s) at/above '%s' not present in baseline: %s%s",
					failOn, strings.Join(shown, ", "), suffix))
		}
	}

	return Result{
		OK:                 len(reasons) == 0,
		Reasons:            reasons,
		CurrentBlockingIDs: curBlocking,
		NewBlockingIDs:     newBlocking,
		CurrentCounts:      curCounts,
		BaselineCounts:     baseCounts,
	}
}
