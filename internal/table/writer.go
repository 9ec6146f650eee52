// Package table writes extraction records as a single-sheet spreadsheet.
package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/putusan/internal/model"
)

// ErrNoRecords is returned when there is nothing to write
var ErrNoRecords = errors.New("no records to write")

// Columns are the header cells, in order
var Columns = []string{"No", "Nomor Putusan", "Lembaga Peradilan", "Barang Bukti", "Amar Putusan"}

var columnWidths = map[string]float64{
	"A": 6,
	"B": 32,
	"C": 22,
	"D": 80,
	"E": 100,
}

// Writer renders records into an xlsx workbook
type Writer struct {
	sheet     string
	now       func() time.Time
	writeFile func(path string, data []byte) error
}

// NewWriter creates a writer for the named sheet
func NewWriter(sheet string) *Writer {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Writer{
		sheet: sheet,
		now:   time.Now,
		writeFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0644)
		},
	}
}

// Write saves records to path and returns the path actually written. When
// path cannot be written for lack of permission (typically the workbook
// is open in a spreadsheet program) the table goes to a timestamped name
// next to it instead.
func (w *Writer) Write(records []model.ExtractionRecord, path string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	data, err := w.Render(records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create table dir: %w", err)
	}

	err = w.writeFile(path, data)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, os.ErrPermission) {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	alt := FallbackPath(path, w.now())
	if err := w.writeFile(alt, data); err != nil {
		return "", fmt.Errorf("save %s: %w", alt, err)
	}
	return alt, nil
}

// Render builds the workbook bytes
func (w *Writer) Render(records []model.ExtractionRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(w.sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{rec.No, rec.CaseNumber, rec.CourtName, rec.Evidence, rec.Verdict}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(w.sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	for col, width := range columnWidths {
		_ = f.SetColWidth(w.sheet, col, col, width)
	}

	// long evidence and verdict cells stay readable
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Columns), len(records)+1)
		_ = f.SetCellStyle(w.sheet, "A2", last, style)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
		_ = f.SetCellStyle(w.sheet, "A1", last, header)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// FallbackPath is path with a timestamp appended to its stem
func FallbackPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".xlsx"
	}
	return fmt.Sprintf("%s_%s%s", stem, t.Format("20060102_150405"), ext)
}
