package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/ppiankov/putusan/internal/model"
)

// ErrBadArtifact is returned when a stage-1 file lacks the two-line header
var ErrBadArtifact = errors.New("malformed artifact header")

var artifactHeader = regexp.MustCompile(`^\[case_id: (\d+)\]\n\[filename: ([^\n]*)\]\n\n`)

// ArtifactName is the stage-1 file name for a sequence number
func ArtifactName(seq int) string {
	return fmt.Sprintf("case_%03d.txt", seq)
}

// FormatArtifact renders the header and body of a stage-1 file
func FormatArtifact(doc model.CleanedDocument) string {
	return fmt.Sprintf("[case_id: %d]\n[filename: %s]\n\n%s", doc.CaseID, doc.Filename, doc.Text)
}

// ParseArtifact splits a stage-1 file back into header fields and body
func ParseArtifact(content string) (model.CleanedDocument, error) {
	m := artifactHeader.FindStringSubmatch(content)
	if m == nil {
		return model.CleanedDocument{}, ErrBadArtifact
	}

	id, err := strconv.Atoi(m[1])
	if err != nil {
		return model.CleanedDocument{}, fmt.Errorf("%w: case_id %q", ErrBadArtifact, m[1])
	}

	return model.CleanedDocument{
		CaseID:   id,
		Filename: m[2],
		Text:     content[len(m[0]):],
	}, nil
}

// WriteArtifact writes doc into dir under its sequence-derived name and
// returns the path. Each sequence number owns its path, so concurrent
// workers never write the same file.
func WriteArtifact(dir string, doc model.CleanedDocument) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, ArtifactName(doc.CaseID))
	if err := os.WriteFile(path, []byte(FormatArtifact(doc)), 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// ReadArtifact reads and parses a stage-1 file
func ReadArtifact(path string) (model.CleanedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CleanedDocument{}, fmt.Errorf("read artifact: %w", err)
	}
	doc, err := ParseArtifact(string(data))
	if err != nil {
		return model.CleanedDocument{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
