package guard

import (
	"regexp"
	"strings"
)

// Stopwords ignored by the content-support heuristic.
var stopwords = wordSet(
	"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "to", "of", "in",
	"for", "on", "with", "at", "by", "from", "as", "into", "through",
	"during", "before", "after", "above", "below", "between", "under",
	"again", "further", "then", "once", "here", "there", "when", "where",
	"why", "how", "all", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than",
	"too", "very", "just", "also", "now", "and", "but", "or", "if", "it",
	"its", "this", "that", "these", "those", "what", "which", "who",
	"whom", "your", "you", "we", "they", "them", "their", "our", "my",
)

// Generic action/structure words that a plan step may use freely without
// counting as new factual content.
var glueVocabulary = wordSet(
	"step", "first", "next", "last", "run", "rerun", "re-run", "confirm",
	"check", "verify", "try", "retry", "follow", "start", "continue",
	"do", "ensure", "make", "see", "look", "update", "fix", "apply",
	"tool", "tools", "command", "commands", "output", "input", "file",
	"files", "error", "errors", "warning", "warnings", "dry", "dryrun",
	"dry-run", "validate", "validation", "config", "configuration",
	"line", "cli", "json", "order", "instructions", "steps",
)

var tokenRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Tokenize extracts normalized content words from text: lowercase
// alphanumeric runs, length >= 3, stopwords dropped.
func Tokenize(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < 3 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// IsContentSupported reports whether a line's information content is
// traceable to the base tokens. A line passes if it tokenizes to nothing,
// shares a content word with the base, or consists solely of glue vocabulary
// and base content words. Deliberately permissive; backs a WARN, never an
// ERROR.
func IsContentSupported(line string, baseTokens map[string]struct{}) bool {
	lineTokens := Tokenize(line)
	if len(lineTokens) == 0 {
		return true
	}

	for t := range lineTokens {
		if _, ok := baseTokens[t]; ok {
			return true
		}
	}

	for t := range lineTokens {
		if _, glue := glueVocabulary[t]; glue {
			continue
		}
		if _, ok := baseTokens[t]; !ok {
			return false
		}
	}
	return true
}
