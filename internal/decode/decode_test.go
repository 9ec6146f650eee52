package decode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Supports(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supports("putusan_1.pdf"))
	assert.True(t, r.Supports("PUTUSAN_2.PDF"))
	assert.True(t, r.Supports("salinan.htm"))
	assert.True(t, r.Supports("ringkas.txt"))
	assert.False(t, r.Supports("scan.docx"))
	assert.False(t, r.Supports("README"))

	assert.Equal(t, []string{".htm", ".html", ".pdf", ".txt"}, r.Extensions())
}

func TestRegistry_Unsupported(t *testing.T) {
	_, err := NewRegistry().Decode(context.Background(), "scan.docx", []byte("x"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestRegistry_RegisterCustom(t *testing.T) {
	r := NewRegistry()
	r.Register("md", DecoderFunc(func(_ context.Context, data []byte) (string, error) {
		return "md:" + string(data), nil
	}))

	got, err := r.Decode(context.Background(), "catatan.MD", []byte("isi"))

	require.NoError(t, err)
	assert.Equal(t, "md:isi", got)
}

func TestRegistry_FoldsCompatibilityForms(t *testing.T) {
	got, err := NewRegistry().Decode(context.Background(), "a.txt", []byte("ﬁle １２"))

	require.NoError(t, err)
	assert.Equal(t, "file 12", got)
}

func TestRegistry_WrapsDecoderErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register(".bin", DecoderFunc(func(context.Context, []byte) (string, error) {
		return "", boom
	}))

	_, err := r.Decode(context.Background(), "x.bin", nil)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "x.bin")
}

func TestText_UTF8(t *testing.T) {
	got, err := Text{}.Decode(context.Background(), []byte("\xEF\xBB\xBFMenimbang bahwa"))

	require.NoError(t, err)
	assert.Equal(t, "Menimbang bahwa", got)
}

func TestText_Windows1252(t *testing.T) {
	got, err := Text{}.Decode(context.Background(), []byte("caf\xe9 \x93kutip\x94"))

	require.NoError(t, err)
	assert.Equal(t, "café “kutip”", got)
}

func TestHTML_VisibleTextByBlock(t *testing.T) {
	page := `<html><head><title>Direktori</title><style>p{}</style></head>
<body>
<p>Putusan Nomor 1</p>
<div>Menimbang <b>bahwa</b> terdakwa</div>
<script>var a = 1;</script>
<ul><li>satu</li><li>dua</li></ul>
</body></html>`

	got, err := HTML{}.Decode(context.Background(), []byte(page))

	require.NoError(t, err)
	assert.Contains(t, got, "Putusan Nomor 1\nMenimbang bahwa terdakwa\n")
	assert.Contains(t, got, "satu\ndua")
	assert.NotContains(t, got, "Direktori")
	assert.NotContains(t, got, "var a")
}

func TestHTML_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HTML{}.Decode(ctx, []byte("<p>x</p>"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDF_RejectsGarbage(t *testing.T) {
	_, err := PDF{}.Decode(context.Background(), []byte("bukan pdf sama sekali"))

	assert.Error(t, err)
}

func TestPDF_RejectsEmpty(t *testing.T) {
	_, err := PDF{}.Decode(context.Background(), nil)

	assert.Error(t, err)
}
