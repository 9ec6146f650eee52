package textclean

import "regexp"

var (
	// bulletLine matches a line break followed by a dash or bullet item marker
	bulletLine = regexp.MustCompile(`\n\s*[-•]\s*`)

	// numberedLine matches a line break followed by "1)" or "1." item markers
	numberedLine = regexp.MustCompile(`\n\s*\d+\s*[).]\s*`)
)

// SplitBullets turns dash/bullet list lines into "; " separated items
func SplitBullets(text string) string {
	return bulletLine.ReplaceAllString(text, "; ")
}

// SplitNumbered turns numbered list lines into "; " separated items
func SplitNumbered(text string) string {
	return numberedLine.ReplaceAllString(text, "; ")
}
