package worker

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"
)

// Progress prints one status line per document and a running count. The
// count line is throttled so large batches do not flood the terminal; the
// final count is always printed. Progress is driven from the goroutine
// draining the pool and is not safe for concurrent use.
type Progress struct {
	out     io.Writer
	total   int
	done    int
	failed  int
	limiter *rate.Limiter
	quiet   bool
}

// NewProgress reports on total documents, printing the count at most once
// per interval
func NewProgress(out io.Writer, total int, interval time.Duration) *Progress {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Progress{
		out:     out,
		total:   total,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Quiet suppresses the per-document lines, keeping only the count
func (p *Progress) Quiet() *Progress {
	p.quiet = true
	return p
}

// Done records one finished document
func (p *Progress) Done(r *FileResult) {
	p.done++
	if r.Err != nil {
		p.failed++
	}

	if !p.quiet {
		if r.Err != nil {
			fmt.Fprintf(p.out, "[%s] → ❌ Error: %v\n", r.Source.Name, r.Err)
		} else {
			fmt.Fprintf(p.out, "[%s] → ✔️ Success\n", r.Source.Name)
		}
	}

	if p.done == p.total || p.limiter.Allow() {
		fmt.Fprintf(p.out, "Processing: %d/%d (%d%%), %d failed\n", p.done, p.total, p.percent(), p.failed)
	}
}

// Counts returns finished and failed documents so far
func (p *Progress) Counts() (done, failed int) {
	return p.done, p.failed
}

func (p *Progress) percent() int {
	if p.total == 0 {
		return 100
	}
	return p.done * 100 / p.total
}
