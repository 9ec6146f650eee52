package model

// NotFound is written into every cell whose field could not be extracted.
// Downstream consumers match on this exact literal.
const NotFound = "Tidak ditemukan"

// SourceFile is one enumerated input with the sequence number assigned
// before dispatch
type SourceFile struct {
	Seq  int    // 1-based, stable across runs for the same directory listing
	Name string // base name, e.g. "putusan_185_pid.sus_2023.pdf"
	Path string
}

// RawDocument is decoder output, never modified afterwards
type RawDocument struct {
	Source string
	Text   string
}

// CleanedDocument is the stage-1 artifact
type CleanedDocument struct {
	CaseID   int
	Filename string
	Text     string
}

// ExtractionRecord is one row of the stage-2 table
type ExtractionRecord struct {
	No         int    `json:"no"`
	CaseNumber string `json:"nomor_putusan"`
	CourtName  string `json:"lembaga_peradilan"`
	Evidence   string `json:"barang_bukti"` // at most 1500 characters
	Verdict    string `json:"amar_putusan"` // at most 3000 characters
}

// ProcessingStats counts what normalization discarded
type ProcessingStats struct {
	CharsRemoved int64 `json:"total_chars_removed"`
	LinesRemoved int64 `json:"total_lines_removed"`
}

// Add accumulates other into s
func (s *ProcessingStats) Add(other ProcessingStats) {
	s.CharsRemoved += other.CharsRemoved
	s.LinesRemoved += other.LinesRemoved
}
