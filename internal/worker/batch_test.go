package worker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/putusan/internal/model"
)

func sources(n int) []model.SourceFile {
	files := make([]model.SourceFile, n)
	for i := range files {
		files[i] = model.SourceFile{Seq: i + 1, Name: "doc_" + string(rune('a'+i%26)) + ".pdf"}
	}
	return files
}

func TestBatchRunner_AllSucceed(t *testing.T) {
	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		time.Sleep(time.Millisecond)
		return model.ProcessingStats{CharsRemoved: 10, LinesRemoved: 2}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 3, BatchSize: 4}, nil, nil)

	summary := runner.Run(context.Background(), sources(25))

	if summary.Total != 25 || summary.Succeeded != 25 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Stats.CharsRemoved != 250 || summary.Stats.LinesRemoved != 50 {
		t.Errorf("expected stats 250/50, got %+v", summary.Stats)
	}
	if summary.Elapsed <= 0 {
		t.Error("expected elapsed time to be recorded")
	}
}

func TestBatchRunner_FailuresDoNotStopRun(t *testing.T) {
	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		if src.Seq%3 == 0 {
			return model.ProcessingStats{}, errors.New("invalid PDF")
		}
		return model.ProcessingStats{LinesRemoved: 1}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 2, BatchSize: 5}, nil, nil)

	summary := runner.Run(context.Background(), sources(10))

	if summary.Succeeded != 7 || summary.Failed != 3 {
		t.Fatalf("expected 7 ok / 3 failed, got %d / %d", summary.Succeeded, summary.Failed)
	}
	if summary.Stats.LinesRemoved != 7 {
		t.Errorf("failed documents must not contribute stats, got %d lines", summary.Stats.LinesRemoved)
	}

	want := []int{3, 6, 9}
	for i, f := range summary.Failures {
		if f.Source.Seq != want[i] {
			t.Errorf("failure %d: expected seq %d, got %d", i, want[i], f.Source.Seq)
		}
	}
}

func TestBatchRunner_PanicIsolatedToDocument(t *testing.T) {
	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		if src.Seq == 2 {
			panic("index out of range")
		}
		return model.ProcessingStats{}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 2, BatchSize: 10}, nil, nil)

	summary := runner.Run(context.Background(), sources(4))

	if summary.Succeeded != 3 || summary.Failed != 1 {
		t.Fatalf("expected 3 ok / 1 failed, got %d / %d", summary.Succeeded, summary.Failed)
	}
	if summary.Failures[0].Source.Seq != 2 || !strings.Contains(summary.Failures[0].Err.Error(), "panic") {
		t.Errorf("unexpected failure: %+v", summary.Failures[0])
	}
}

func TestBatchRunner_EachDocumentOnce(t *testing.T) {
	var mu sync.Mutex
	counts := make(map[int]int)
	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		mu.Lock()
		counts[src.Seq]++
		mu.Unlock()
		return model.ProcessingStats{}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 8, BatchSize: 3}, nil, nil)

	runner.Run(context.Background(), sources(50))

	if len(counts) != 50 {
		t.Fatalf("expected 50 distinct documents, got %d", len(counts))
	}
	for seq, n := range counts {
		if n != 1 {
			t.Errorf("document %d processed %d times", seq, n)
		}
	}
}

func TestBatchRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		return model.ProcessingStats{}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 2, BatchSize: 2}, nil, nil)

	summary := runner.Run(ctx, sources(5))

	if summary.Total != 5 || summary.Succeeded+summary.Failed != 5 {
		t.Fatalf("every document must be accounted for: %+v", summary)
	}
	if summary.Succeeded != 0 {
		t.Errorf("expected no successes after cancellation, got %d", summary.Succeeded)
	}
}

func TestBatchRunner_Empty(t *testing.T) {
	runner := NewBatchRunner(ProcessorFunc(nil), model.ConcurrencyConfig{Workers: 2, BatchSize: 2}, nil, nil)

	summary := runner.Run(context.Background(), nil)

	if summary.Total != 0 || summary.Succeeded != 0 || summary.Failed != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestBatchRunner_ReportsProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf, 3, 0)
	processor := ProcessorFunc(func(ctx context.Context, src model.SourceFile) (model.ProcessingStats, error) {
		if src.Seq == 1 {
			return model.ProcessingStats{}, errors.New("rusak")
		}
		return model.ProcessingStats{}, nil
	})
	runner := NewBatchRunner(processor, model.ConcurrencyConfig{Workers: 1, BatchSize: 3}, progress, nil)

	runner.Run(context.Background(), sources(3))

	out := buf.String()
	if strings.Count(out, "✔️ Success") != 2 {
		t.Errorf("expected 2 success lines, got:\n%s", out)
	}
	if !strings.Contains(out, "❌ Error: rusak") {
		t.Errorf("expected error line, got:\n%s", out)
	}
	if !strings.Contains(out, "Processing: 3/3 (100%), 1 failed") {
		t.Errorf("expected final count line, got:\n%s", out)
	}
}

func TestFileResult_GetError(t *testing.T) {
	r1 := &FileResult{Source: model.SourceFile{Name: "a.pdf"}}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("decode failed")
	r2 := &FileResult{Source: model.SourceFile{Name: "a.pdf"}, Err: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestEnumerate_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.docx", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755); err != nil {
		t.Fatal(err)
	}

	supports := func(name string) bool {
		return strings.HasSuffix(name, ".pdf") || strings.HasSuffix(name, ".txt")
	}
	files, err := Enumerate(dir, supports)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	want := []string{"a.pdf", "b.pdf", "c.txt"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, f := range files {
		if f.Name != want[i] || f.Seq != i+1 {
			t.Errorf("file %d: expected %s/#%d, got %s/#%d", i, want[i], i+1, f.Name, f.Seq)
		}
		if f.Path != filepath.Join(dir, want[i]) {
			t.Errorf("unexpected path %s", f.Path)
		}
	}
}

func TestEnumerate_MissingDir(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "tidak-ada"), func(string) bool { return true })
	if err == nil {
		t.Error("expected error for missing directory, got nil")
	}
}

func TestReadFileList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "daftar.txt")
	content := "b.pdf\n# komentar\n\n  a.pdf  \nb.pdf\n/abs/c.pdf\n"
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ReadFileList(list, "Dataset", func(name string) bool { return strings.HasSuffix(name, ".pdf") })
	if err != nil {
		t.Fatalf("ReadFileList failed: %v", err)
	}

	want := []string{filepath.Join("Dataset", "b.pdf"), filepath.Join("Dataset", "a.pdf"), "/abs/c.pdf"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, f := range files {
		if f.Path != want[i] || f.Seq != i+1 {
			t.Errorf("entry %d: expected %s/#%d, got %s/#%d", i, want[i], i+1, f.Path, f.Seq)
		}
	}
}

func TestReadFileList_Unsupported(t *testing.T) {
	list := filepath.Join(t.TempDir(), "daftar.txt")
	os.WriteFile(list, []byte("a.docx\n"), 0644)

	_, err := ReadFileList(list, ".", func(name string) bool { return strings.HasSuffix(name, ".pdf") })
	if err == nil {
		t.Error("expected error for unsupported entry, got nil")
	}
}

func TestReadFileList_NonExistent(t *testing.T) {
	_, err := ReadFileList("non_existent_file.txt", ".", func(string) bool { return true })
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
