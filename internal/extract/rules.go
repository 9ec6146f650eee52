package extract

import (
	"regexp"
	"strings"
)

// Strategy selects which part of a match a rule returns
type Strategy int

const (
	// CaptureGroup returns the first capture group
	CaptureGroup Strategy = iota
	// CaptureMatch returns the text from the start of the match to the end
	// of the first capture group, so trailing terminators stay out
	CaptureMatch
)

// Rule is one tagged candidate pattern for a field
type Rule struct {
	Tag      string
	Pattern  *regexp.Regexp
	Strategy Strategy
}

// RuleSet is the ordered candidate list for one field. The first rule that
// matches wins; later rules are never consulted and match lengths are never
// compared.
type RuleSet struct {
	Field string
	Rules []Rule
}

func group(tag, pattern string) Rule {
	return Rule{Tag: tag, Pattern: regexp.MustCompile(pattern), Strategy: CaptureGroup}
}

func whole(tag, pattern string) Rule {
	return Rule{Tag: tag, Pattern: regexp.MustCompile(pattern), Strategy: CaptureMatch}
}

// Apply returns the trimmed value of the first matching rule and its tag.
// ok is false when no rule matches.
func (rs RuleSet) Apply(text string) (value, tag string, ok bool) {
	for _, r := range rs.Rules {
		m := r.Pattern.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		return strings.TrimSpace(r.extract(text, m)), r.Tag, true
	}
	return "", "", false
}

func (r Rule) extract(text string, m []int) string {
	hasGroup := len(m) >= 4 && m[2] >= 0

	switch r.Strategy {
	case CaptureMatch:
		if hasGroup {
			return text[m[0]:m[3]]
		}
		return text[m[0]:m[1]]
	default:
		if hasGroup {
			return text[m[2]:m[3]]
		}
		return ""
	}
}

// caseNumberSuffix is the body of every case-number rule: a number, a
// register code and anything up to the court suffix on the same line.
const caseNumberSuffix = `(\d+[-/]?[A-Za-z0-9./]+/[^/\n]*?(?:PN\.?)?\.?YYK)`

// CaseNumberRules finds the decision number ending in the court suffix
var CaseNumberRules = RuleSet{
	Field: "nomor_putusan",
	Rules: []Rule{
		group("nomor", `(?is)Nomor\s*:?\s*`+caseNumberSuffix),
		group("putusan-no", `(?is)Putusan\s+No[.:]?\s*`+caseNumberSuffix),
		group("no", `(?is)No[.:]?\s*`+caseNumberSuffix),
	},
}

// evidenceEnd closes an evidence block at the next section header
const evidenceEnd = `(?:MENGINGAT|MENGADILI|MEMUTUSKAN|MENETAPKAN|MENYATAKAN|MEMBEBANKAN|imposes|$)`

// evidenceEndLoose is used by the looser rules, which historically do not
// stop at the costs clause
const evidenceEndLoose = `(?:MENGINGAT|MENGADILI|MEMUTUSKAN|MENETAPKAN|MENYATAKAN|$)`

// EvidenceRules finds the evidence enumeration. Explicit introducer
// phrases come before the bare "proven" and "found" anchors.
var EvidenceRules = RuleSet{
	Field: "barang_bukti",
	Rules: []Rule{
		group("barang-bukti-berupa", `(?is)barang\s*bukti\s*berupa[:\s]*(.*?)`+evidenceEnd),
		group("evidence-consisting-of", `(?is)evidence\s+consisting\s+of[:\s]*(.*?)`+evidenceEnd),
		group("menetapkan-barang-bukti", `(?is)menetapkan\s+barang\s+bukti\s+berupa[:\s]*(.*?)`+evidenceEnd),
		group("terbukti", `(?is)terbukti[:\s]*(.*?)`+evidenceEndLoose),
		group("found-to-be", `(?is)found\s+to\s+be[:\s]*(.*?)`+evidenceEndLoose),
		group("telah-ditemukan", `(?is)telah\s+ditemukan\s*(.*?)`+evidenceEndLoose),
		group("ditemukan", `(?is)ditemukan\s*(.*?)`+evidenceEndLoose),
	},
}

var (
	// verdictAnchor opens the operative clause
	verdictAnchor = regexp.MustCompile(`(?i)(?:menyatakan\s+terdakwa|declares\s+the\s+defendant)`)

	// sectionHeader is an upper-case line start such as "MENETAPKAN".
	// It is case-sensitive, so fully lowercased text never shrinks the window.
	sectionHeader = regexp.MustCompile(`\n\s{0,5}[A-Z]{3,}\b`)

	nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

	newlines = regexp.MustCompile(`\n+`)
)

// VerdictFallbackRules run on newline-flattened text when the anchor
// phrase is absent. Each returns the whole match up to its terminator.
var VerdictFallbackRules = RuleSet{
	Field: "amar_putusan",
	Rules: []Rule{
		whole("terbukti-secara-sah",
			`(?is)terdakwa\s.{0,200}?\bterbukti\s+secara\s+sah\b(.*?)(?:\bkedua\b|\bketiga\b|\bkeempat\b|\bkelima\b|\bmenetapkan\b|\bmembebankan\b|$)`),
		whole("proven-guilty",
			`(?is)defendant\s.{0,200}?\bproven\s+guilty\b(.*?)(?:\bimposes\b|$)`),
		whole("menjatuhkan-pidana",
			`(?is)menjatuhkan\s+pidana\b(.*?)(?:\bmenetapkan\b|\bmembebankan\b|$)`),
		whole("sentences-the-defendant",
			`(?is)sentences\s+the\s+defendant\b(.*?)(?:\bimposes\b|$)`),
	},
}
