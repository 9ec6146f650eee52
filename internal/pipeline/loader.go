package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrTooLarge is returned for source files above the configured size
var ErrTooLarge = errors.New("file exceeds size limit")

// Loader reads source documents from disk with a size limit
type Loader struct {
	maxBytes int64
}

// NewLoader creates a Loader; maxBytes <= 0 means no limit
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load returns the bytes of the file at path
func (l *Loader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = f.Close() }()

	if l.maxBytes <= 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		return data, nil
	}

	// one extra byte tells an exact fit from an oversized file
	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, l.maxBytes)
	}
	return data, nil
}
