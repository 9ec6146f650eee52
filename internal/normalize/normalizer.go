// Package normalize turns decoder output into the cleaned plain text that
// stage 2 scans: boilerplate lines are dropped, legal section keywords
// open new paragraphs, and known noise patterns and punctuation are removed.
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/textclean"
)

var (
	// numericLine matches stray page numbers left on their own line
	numericLine = regexp.MustCompile(`^\s*\d+\s*$`)

	spaceTab = regexp.MustCompile(`[ \t]+`)
)

// droppedPunctuation is ASCII punctuation minus . , - / : which later
// case-number and date patterns depend on.
const droppedPunctuation = "!\"#$%&'()*+;<=>?@[\\]^_`{|}~"

// Normalizer cleans raw judgment text. It is safe for concurrent use;
// removal statistics accumulate across every Clean call.
type Normalizer struct {
	prefixes     []string
	escapes      []string
	keywords     []*regexp.Regexp
	maxShortLine int
	rules        []textclean.Rule

	mu    sync.Mutex
	stats model.ProcessingStats
}

// New creates a Normalizer for the given vocabulary
func New(cfg model.NormalizeConfig) *Normalizer {
	n := &Normalizer{
		prefixes:     lowerAll(cfg.BoilerplatePrefixes),
		escapes:      lowerAll(cfg.EscapeTokens),
		maxShortLine: cfg.ShortLineMaxWords,
		rules:        RemovalRules(),
	}
	for _, kw := range lowerAll(cfg.ParagraphKeywords) {
		if kw == "" {
			continue
		}
		n.keywords = append(n.keywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return n
}

// Clean runs the line pass and then the text pass over raw, records the
// removal counts and returns the cleaned text with this document's counts.
func (n *Normalizer) Clean(raw string) (string, model.ProcessingStats) {
	reflowed, dropped := n.Reclassify(raw)
	cleaned := n.Normalize(reflowed)

	delta := model.ProcessingStats{
		CharsRemoved: int64(max(0, utf8.RuneCountInString(raw)-utf8.RuneCountInString(cleaned))),
		LinesRemoved: int64(dropped),
	}

	n.mu.Lock()
	n.stats.Add(delta)
	n.mu.Unlock()

	return cleaned, delta
}

// Reclassify drops empty, numeric-only and short boilerplate lines and
// puts a blank line before every line holding a paragraph keyword.
// It returns the reassembled text and the number of dropped lines.
func (n *Normalizer) Reclassify(raw string) (string, int) {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	dropped := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if lower == "" || numericLine.MatchString(line) {
			dropped++
			continue
		}

		if n.isBoilerplate(lower) {
			dropped++
			continue
		}

		if n.opensParagraph(lower) {
			kept = append(kept, "\n"+trimmed)
		} else {
			kept = append(kept, trimmed)
		}
	}

	return strings.Join(kept, "\n"), dropped
}

// Normalize lowercases text, applies the removal table, strips noise
// punctuation and collapses spaces and tabs. Newlines are kept.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(text)
	text = textclean.Apply(text, n.rules)
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(droppedPunctuation, r) {
			return -1
		}
		return r
	}, text)
	text = spaceTab.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Stats returns the counts accumulated so far
func (n *Normalizer) Stats() model.ProcessingStats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stats
}

// isBoilerplate reports whether a short line starts with a known
// boilerplate phrase and carries no escape token
func (n *Normalizer) isBoilerplate(lower string) bool {
	if len(strings.Fields(lower)) > n.maxShortLine {
		return false
	}

	matched := false
	for _, p := range n.prefixes {
		if p != "" && strings.HasPrefix(lower, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, tok := range n.escapes {
		if tok != "" && strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}

func (n *Normalizer) opensParagraph(lower string) bool {
	for _, kw := range n.keywords {
		if kw.MatchString(lower) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
