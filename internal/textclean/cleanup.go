package textclean

import (
	"regexp"
	"strings"
)

// numberWords are the spelled-out numbers that follow digits in evidence
// lists ("12 dua belas unit"). Compound forms come first so the leftmost
// alternative does not stop at "dua".
const numberWords = `dua belas|tiga belas|empat belas|lima belas|sebelas|sepuluh|` +
	`satu|dua|tiga|empat|lima|enam|tujuh|delapan|sembilan`

var (
	// decorative bullets: general punctuation, supplemental punctuation,
	// CJK punctuation, geometric shapes and misc symbols
	decorativeSymbols = regexp.MustCompile(`[\x{2000}-\x{206F}\x{2E00}-\x{2E7F}\x{3000}-\x{303F}\x{25A0}-\x{25FF}\x{2600}-\x{26FF}]+`)

	// item markers ("1.", "a)", "(2)", "-", "•") at string start or after a semicolon
	itemMarker = regexp.MustCompile(`(?i)(^|;)\s*(?:(?:\(?\d{1,3}[.)]|\(?[a-z][.)])\s+|[-•]\s*)+`)

	disallowed = regexp.MustCompile(`[^0-9A-Za-z\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{FF}\s,.;:()%\-/]`)

	separatorRun = regexp.MustCompile(`[:;](?:\s*[:;])+`)
	commaRun     = regexp.MustCompile(`,(?:\s*,)+`)

	spelledNumber = regexp.MustCompile(`(?i)\b(\d+)\s+(?:\((?:` + numberWords + `)\)|(?:` + numberWords + `)\b)`)

	// "dirampas untuk dimusnahkan" ends the useful part of an item list
	confiscation = regexp.MustCompile(`(?i)(?:dirampas\s*untuk\s*(?:di\s*)?dimusnahkan|confiscated\s+for\s+destruction)\b[\s\S]*$`)

	courtCode = regexp.MustCompile(`(?i)\b(?:pn\s*)?yyk\b[.:,;\-]*`)

	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:])`)
	semicolonSpacing = regexp.MustCompile(`;\s*`)
)

const maxCleanPasses = 8

// CleanItems normalises an extracted item list into "item; item; item"
// form. The result is a fixed point: CleanItems(CleanItems(s)) == CleanItems(s).
func CleanItems(text string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func cleanOnce(s string) string {
	s = decorativeSymbols.ReplaceAllString(s, " ")
	s = itemMarker.ReplaceAllString(s, "${1} ")
	s = disallowed.ReplaceAllString(s, " ")

	s = separatorRun.ReplaceAllString(s, ";")
	s = commaRun.ReplaceAllString(s, ",")

	s = spelledNumber.ReplaceAllString(s, "${1}")
	s = confiscation.ReplaceAllString(s, "")
	s = courtCode.ReplaceAllString(s, "")

	s = spaceBeforePunct.ReplaceAllString(s, "${1}")
	s = semicolonSpacing.ReplaceAllString(s, "; ")

	s = CollapseSpace(s)
	return strings.Trim(s, ",.;: ")
}
