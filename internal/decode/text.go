package decode

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text reads plain-text judgments. Input that is not valid UTF-8 is taken
// to be Windows-1252, the usual encoding of exported office documents.
type Text struct{}

// Decode implements Decoder
func (Text) Decode(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode windows-1252: %w", err)
	}
	return string(decoded), nil
}
