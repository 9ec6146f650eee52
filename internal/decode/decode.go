// Package decode turns source judgments (PDF, HTML, plain text) into raw
// UTF-8 text for the normalizer.
package decode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnsupported is returned for file types no decoder is registered for
var ErrUnsupported = errors.New("unsupported document type")

// Decoder converts one document's bytes to text
type Decoder interface {
	Decode(ctx context.Context, data []byte) (string, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(ctx context.Context, data []byte) (string, error)

// Decode calls f
func (f DecoderFunc) Decode(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Registry selects a decoder by file extension
type Registry struct {
	byExt map[string]Decoder
}

// NewRegistry returns a registry with the PDF, HTML and text decoders
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Decoder)}
	r.Register(".pdf", PDF{})
	r.Register(".html", HTML{})
	r.Register(".htm", HTML{})
	r.Register(".txt", Text{})
	return r
}

// Register adds or replaces the decoder for ext (".pdf", "txt", ...)
func (r *Registry) Register(ext string, d Decoder) {
	r.byExt[normalizeExt(ext)] = d
}

// Supports reports whether name has a registered extension
func (r *Registry) Supports(name string) bool {
	_, ok := r.byExt[normalizeExt(filepath.Ext(name))]
	return ok
}

// Extensions lists the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode picks the decoder for name and returns NFKC-folded text, so
// ligatures and full-width forms from typeset PDFs match plain patterns.
func (r *Registry) Decode(ctx context.Context, name string, data []byte) (string, error) {
	ext := normalizeExt(filepath.Ext(name))
	d, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("decode %s: %w", name, ErrUnsupported)
	}

	text, err := d.Decode(ctx, data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return norm.NFKC.String(text), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
