package textclean

import (
	"strings"
	"unicode"
)

// Ellipsis marks a truncated field
const Ellipsis = "..."

// Truncate shortens text to at most limit runes, ellipsis included. The
// cut falls on the last whitespace inside the limit; a single token longer
// than the limit is cut hard.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	budget := limit - len(Ellipsis)
	if budget <= 0 {
		return Ellipsis[:max(limit, 0)]
	}

	// a word ending exactly at the budget stays whole
	if unicode.IsSpace(runes[budget]) {
		return strings.TrimRightFunc(string(runes[:budget]), unicode.IsSpace) + Ellipsis
	}

	cut := budget
	for cut > 0 && !unicode.IsSpace(runes[cut-1]) {
		cut--
	}
	if cut == 0 {
		cut = budget
	}

	head := strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace)
	if head == "" {
		head = string(runes[:budget])
	}
	return head + Ellipsis
}
