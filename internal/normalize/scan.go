package normalize

import (
	"fmt"
	"strings"
	"unicode"
)

// controlCharNotes flags invisible or control characters in raw input.
// Purely additive: parsing is unaffected, the caller just gets a note so
// the user knows the captured output may not read the way it looks.
func controlCharNotes(text string) []string {
	var codepoints []string
	seen := make(map[rune]bool)

	for _, r := range text {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if !unicode.IsControl(r) && !isInvisible(r) {
			continue
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		codepoints = append(codepoints, fmt.Sprintf("U+%04X", r))
	}

	if len(codepoints) == 0 {
		return nil
	}
	return []string{
		"Input contains control or invisible characters (" +
			strings.Join(codepoints, " ") + "); output may not match what is displayed.",
	}
}

// isInvisible reports zero-width and byte-order-mark runes.
func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u2060':
		return true
	}
	return false
}
