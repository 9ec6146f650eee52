// Package textclean holds the text-cleanup routines shared by the
// normalizer and the field extractor: rule tables, marker stripping,
// list normalisation, the evidence cleanup pass and truncation.
package textclean

import (
	"regexp"
	"strings"
)

// Rule is one row of a data-driven removal table. Match flags such as
// (?i) and (?s) are part of the pattern itself.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string // expanded like regexp.ReplaceAllString templates
}

// NewRule compiles pattern and panics if it is invalid. Tables are static,
// so a bad pattern is a programming error caught at init.
func NewRule(name, pattern, replace string) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(pattern),
		Replace: replace,
	}
}

// Apply runs every rule over text in table order
func Apply(text string, rules []Rule) string {
	for _, r := range rules {
		text = r.Pattern.ReplaceAllString(text, r.Replace)
	}
	return text
}

// CollapseSpace replaces every whitespace run (newlines included) with a
// single space and trims both ends.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
