package profile

import (
	"regexp"
	"strings"

	"github.com/a11ytools/a11y-assist/internal/assist"
)

// Shared text operations reused by the profile transforms with per-profile
// parameter variation. All are pure string-to-string functions; the exact
// regex semantics are behavioral contracts covered by tests.

var (
	parentheticalSpanRe = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*`)
	visualNavRe         = regexp.MustCompile(`(?i)\b(see\s+)?(above|below|left|right|arrow)\b`)
	multiSpaceRe        = regexp.MustCompile(`\s+`)
)

// Abbreviations expanded for listen-first and low-friction reading profiles.
// Each is substituted at most once per string, first occurrence only.
var abbreviations = []struct {
	re        *regexp.Regexp
	expansion string
}{
	{regexp.MustCompile(`\bCLI\b`), "command line"},
	{regexp.MustCompile(`\bID\b`), "I D"},
	{regexp.MustCompile(`\bJSON\b`), "J S O N"},
	{regexp.MustCompile(`\bAPI\b`), "A P I"},
	{regexp.MustCompile(`\bSFTP\b`), "S F T P"},
	{regexp.MustCompile(`\bSSH\b`), "S S H"},
	{regexp.MustCompile(`\bURL\b`), "U R L"},
	{regexp.MustCompile(`\bHTTPS\b`), "H T T P S"},
	{regexp.MustCompile(`\bHTTP\b`), "H T T P"},
	{regexp.MustCompile(`\benv\b`), "environment"},
}

func stripPrefix(s string, re *regexp.Regexp) string {
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}

// removeParentheticals strips (...) and [...] spans. If stripping would
// empty the string the original is returned: a step must never vanish.
func removeParentheticals(s string) string {
	result := strings.TrimSpace(parentheticalSpanRe.ReplaceAllString(s, " "))
	if result == "" {
		return s
	}
	return collapseSpaces(result)
}

func removeVisualRefs(s string) string {
	return collapseSpaces(visualNavRe.ReplaceAllString(s, ""))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

func expandAbbreviations(s string) string {
	for _, a := range abbreviations {
		if loc := a.re.FindStringIndex(s); loc != nil {
			s = s[:loc[0]] + a.expansion + s[loc[1]:]
		}
	}
	return s
}

// firstSentence keeps the first clause: split on the first semicolon, then
// keep the first ". "-delimited sentence.
func firstSentence(s string) string {
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if i := strings.Index(s, ". "); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// capLength truncates to max characters, replacing the tail with a single
// ellipsis character.
func capLength(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// selectSafeCommand picks at most one command: none on Low confidence,
// otherwise the first command verbatim.
func selectSafeCommand(commands []string, confidence assist.Confidence) (string, bool) {
	if confidence == assist.ConfidenceLow || len(commands) == 0 {
		return "", false
	}
	return commands[0], true
}
