package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/putusan/internal/cache"
	"github.com/ppiankov/putusan/internal/decode"
	"github.com/ppiankov/putusan/internal/extract"
	"github.com/ppiankov/putusan/internal/model"
	"github.com/ppiankov/putusan/internal/normalize"
	"github.com/ppiankov/putusan/internal/worker"
)

const judgment = `Direktori Putusan Mahkamah Agung Republik Indonesia
P U T U S A N
Nomor 185/Pid.Sus/2023/PN Yyk
Menimbang bahwa Terdakwa telah didakwa;
Barang bukti berupa:
- 1 (satu) unit handphone merk Samsung;
- 2 (dua) buah kunci;
MENGADILI
Menyatakan Terdakwa Budi terbukti secara sah dan meyakinkan bersalah
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	root := t.TempDir()

	cfg := model.DefaultConfig()
	cfg.Paths.DatasetDir = filepath.Join(root, "Dataset")
	cfg.Paths.RawDir = filepath.Join(root, "raw")
	cfg.Paths.ProcessedDir = filepath.Join(root, "processed")
	cfg.Cache.Enabled = false
	cfg.Concurrency.Workers = 2
	cfg.Concurrency.BatchSize = 2
	require.NoError(t, os.MkdirAll(cfg.Paths.DatasetDir, 0755))
	return cfg
}

func TestLoader_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "12345")

	data, err := NewLoader(5).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = NewLoader(4).Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err = NewLoader(0).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, data, 5)
}

func TestLoader_MissingFileAndCancelledContext(t *testing.T) {
	_, err := NewLoader(10).Load(context.Background(), filepath.Join(t.TempDir(), "none.pdf"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLoader(10).Load(ctx, "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArtifact_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := model.CleanedDocument{CaseID: 7, Filename: "putusan 7.pdf", Text: "isi\n\nmenimbang bahwa"}

	path, err := WriteArtifact(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, "case_007.txt", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[case_id: 7]\n[filename: putusan 7.pdf]\n\nisi\n\nmenimbang bahwa", string(raw))

	got, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestArtifact_NameWidensPastThreeDigits(t *testing.T) {
	assert.Equal(t, "case_001.txt", ArtifactName(1))
	assert.Equal(t, "case_1234.txt", ArtifactName(1234))
}

func TestParseArtifact_Malformed(t *testing.T) {
	_, err := ParseArtifact("no header here")
	assert.ErrorIs(t, err, ErrBadArtifact)

	_, err = ParseArtifact("[case_id: x]\n[filename: a]\n\nbody")
	assert.ErrorIs(t, err, ErrBadArtifact)
}

func newTestCleanStage(outDir string, textCache *cache.TextCache) *CleanStage {
	return NewCleanStage(NewLoader(1<<20), decode.NewRegistry(), textCache,
		normalize.New(model.DefaultNormalizeConfig()), outDir, nil)
}

func TestCleanStage_WritesArtifact(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeFile(t, in, "putusan_185.txt", judgment)

	stage := newTestCleanStage(out, nil)
	doc, stats, err := stage.Clean(context.Background(), model.SourceFile{Seq: 3, Name: "putusan_185.txt", Path: path})
	require.NoError(t, err)

	assert.Equal(t, 3, doc.CaseID)
	assert.Contains(t, doc.Text, "nomor 185/pid.sus/2023/pn yyk")
	assert.NotContains(t, doc.Text, "direktori")
	assert.Positive(t, stats.LinesRemoved)

	got, err := ReadArtifact(filepath.Join(out, "case_003.txt"))
	require.NoError(t, err)
	assert.Equal(t, *doc, got)
}

func TestCleanStage_DecodeFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeFile(t, in, "broken.pdf", "definitely not a pdf")

	stage := newTestCleanStage(out, nil)
	_, err := stage.Process(context.Background(), model.SourceFile{Seq: 1, Name: "broken.pdf", Path: path})

	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(out, "case_001.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanStage_UsesCache(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeFile(t, in, "a.txt", judgment)
	textCache := cache.NewTextCache(cache.NewMemoryCache(time.Minute, time.Minute))

	stage := newTestCleanStage(out, textCache)
	src := model.SourceFile{Seq: 1, Name: "a.txt", Path: path}

	first, _, err := stage.Clean(context.Background(), src)
	require.NoError(t, err)
	second, _, err := stage.Clean(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	hits, misses := stage.CacheCounts()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestExtractStage_RecordsInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteArtifact(dir, model.CleanedDocument{CaseID: 2, Filename: "b.pdf", Text: "teks tanpa isi"})
	require.NoError(t, err)
	_, err = WriteArtifact(dir, model.CleanedDocument{CaseID: 1, Filename: "a.pdf",
		Text: "nomor 185/pid.sus/2023/pn yyk\nmenyatakan terdakwa bersalah"})
	require.NoError(t, err)
	writeFile(t, dir, "notes.md", "ignored")

	var out bytes.Buffer
	stage := NewExtractStage(extract.New(model.DefaultConfig().Extract), &out, nil)

	records, summary, err := stage.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].No)
	assert.Equal(t, "185/pid.sus/2023/pn yyk", records[0].CaseNumber)
	assert.Equal(t, "menyatakan terdakwa bersalah", records[0].Verdict)
	assert.Equal(t, 2, records[1].No)
	assert.Equal(t, model.NotFound, records[1].CaseNumber)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 1, summary.Missing["nomor_putusan"])
	assert.Equal(t, 2, summary.Missing["barang_bukti"])
	assert.Equal(t, 2, strings.Count(out.String(), "✔️ Processed"))
}

func TestExtractStage_HeaderlessFileUsesWholeContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manual.txt", "putusan nomor 9/pid.b/2020/pn yyk")

	stage := NewExtractStage(extract.New(model.DefaultConfig().Extract), nil, nil)
	records, _, err := stage.Run(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "9/pid.b/2020/pn yyk", records[0].CaseNumber)
}

func TestExtractStage_MissingDir(t *testing.T) {
	stage := NewExtractStage(extract.New(model.DefaultConfig().Extract), nil, nil)

	_, _, err := stage.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}

func TestPipeline_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Paths.DatasetDir, "a_putusan.txt", judgment)
	writeFile(t, cfg.Paths.DatasetDir, "b_rusak.pdf", "not a pdf at all")
	writeFile(t, cfg.Paths.DatasetDir, "c_putusan.html",
		"<html><head><title>x</title></head><body><p>Nomor 12/Pid.B/2024/PN Yyk</p></body></html>")
	writeFile(t, cfg.Paths.DatasetDir, "d_catatan.docx", "unsupported")

	var out bytes.Buffer
	p := NewPipeline(cfg, &out, nil)

	clean, err := p.Clean(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, clean.Summary.Total)
	assert.Equal(t, 2, clean.Summary.Succeeded)
	require.Len(t, clean.Summary.Failures, 1)
	assert.Equal(t, "b_rusak.pdf", clean.Summary.Failures[0].Source.Name)
	assert.Contains(t, out.String(), "[b_rusak.pdf] → ❌ Error")
	assert.Contains(t, out.String(), "Processing: 3/3")

	assert.FileExists(t, filepath.Join(cfg.Paths.RawDir, "case_001.txt"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.RawDir, "case_002.txt"))
	assert.FileExists(t, filepath.Join(cfg.Paths.RawDir, "case_003.txt"))

	result, err := p.Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.False(t, result.Fallback)
	assert.Equal(t, filepath.Join(cfg.Paths.ProcessedDir, cfg.Output.TableName), result.TablePath)

	f, err := excelize.OpenFile(result.TablePath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(cfg.Output.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "185/pid.sus/2023/pn yyk", rows[1][1])
	assert.Equal(t, "12/pid.b/2024/pn yyk", rows[2][1])
}

func TestPipeline_NoInput(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Paths.DatasetDir, "notes.docx", "x")

	_, err := NewPipeline(cfg, nil, nil).Clean(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoInput)
}

func TestPipeline_ExtractWithNothingToWrite(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Paths.RawDir, 0755))

	result, err := NewPipeline(cfg, nil, nil).Extract(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.TablePath)
	assert.NoFileExists(t, filepath.Join(cfg.Paths.ProcessedDir, cfg.Output.TableName))
}

func TestPipeline_CleanExplicitFileList(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Paths.DatasetDir, "a.txt", judgment)
	writeFile(t, cfg.Paths.DatasetDir, "b.txt", judgment)
	list := writeFile(t, t.TempDir(), "retry.txt", "# retry\nb.txt\n")

	p := NewPipeline(cfg, nil, nil)
	files, err := worker.ReadFileList(list, cfg.Paths.DatasetDir, p.Supports)
	require.NoError(t, err)

	result, err := p.Clean(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Succeeded)
	doc, err := ReadArtifact(filepath.Join(cfg.Paths.RawDir, "case_001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b.txt", doc.Filename)
}
