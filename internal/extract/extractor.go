// Package extract recovers the table fields from a cleaned judgment with
// ordered, tagged pattern rules. Every field resolves to content or to
// model.NotFound.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/textclean"
)

// headerOffset is how far past the anchor the header search starts, so the
// anchor line itself can never end the window
const headerOffset = 50

// FieldExtractor extracts table fields from cleaned text. It holds no
// mutable state and is safe for concurrent use.
type FieldExtractor struct {
	court         string
	evidenceLimit int
	verdictLimit  int
	verdictWindow int
}

// New creates a FieldExtractor with the given limits
func New(cfg model.ExtractConfig) *FieldExtractor {
	return &FieldExtractor{
		court:         strings.TrimSpace(cfg.CourtName),
		evidenceLimit: cfg.EvidenceLimit,
		verdictLimit:  cfg.VerdictLimit,
		verdictWindow: cfg.VerdictWindow,
	}
}

// Extract builds the table row for one document
func (e *FieldExtractor) Extract(no int, text string) model.ExtractionRecord {
	return model.ExtractionRecord{
		No:         no,
		CaseNumber: e.CaseNumber(text),
		CourtName:  e.Court(text),
		Evidence:   e.Evidence(text),
		Verdict:    e.Verdict(text),
	}
}

// CaseNumber returns the decision number up to the court suffix
func (e *FieldExtractor) CaseNumber(text string) string {
	value, _, ok := CaseNumberRules.Apply(text)
	if !ok || value == "" {
		return model.NotFound
	}
	return value
}

// Court returns the configured court label. The corpus comes from a
// single court, so nothing is matched.
func (e *FieldExtractor) Court(string) string {
	if e.court == "" {
		return model.NotFound
	}
	return e.court
}

// Evidence returns the cleaned evidence enumeration
func (e *FieldExtractor) Evidence(text string) string {
	value, _, ok := EvidenceRules.Apply(text)
	if !ok {
		return model.NotFound
	}

	value = textclean.SplitBullets(value)
	value = textclean.SplitNumbered(value)
	value = textclean.StripMarkers(value)
	value = textclean.CleanItems(value)
	if value == "" {
		return model.NotFound
	}
	return textclean.Truncate(value, e.evidenceLimit)
}

// Verdict returns the operative clause starting at the anchor phrase. The
// clause runs for at most verdictWindow runes and stops early at the first
// upper-case section header after the anchor line.
func (e *FieldExtractor) Verdict(text string) string {
	text = strings.ReplaceAll(text, "\r", "")

	loc := verdictAnchor.FindStringIndex(text)
	if loc == nil {
		return e.verdictFallback(text)
	}

	runes := []rune(text)
	start := utf8.RuneCountInString(text[:loc[0]])
	end := min(len(runes), start+e.verdictWindow)

	if from := start + headerOffset; from < end {
		tail := string(runes[from:end])
		if h := sectionHeader.FindStringIndex(tail); h != nil {
			end = from + utf8.RuneCountInString(tail[:h[0]])
		}
	}

	block := string(runes[start:end])
	block = textclean.SplitBullets(block)
	block = textclean.StripMarkers(block)
	block = nonASCII.ReplaceAllString(block, " ")
	block = textclean.CollapseSpace(block)
	if block == "" {
		return model.NotFound
	}
	return textclean.Truncate(block, e.verdictLimit)
}

func (e *FieldExtractor) verdictFallback(text string) string {
	flat := newlines.ReplaceAllString(text, " ")

	value, _, ok := VerdictFallbackRules.Apply(flat)
	if !ok {
		return model.NotFound
	}

	value = textclean.CollapseSpace(value)
	if value == "" {
		return model.NotFound
	}
	return textclean.Truncate(value, e.verdictLimit)
}
