package ui

import (
	"fmt"
	"io"
	"sync"
)

// Progress reports a fixed number of steps, one line per step.
type Progress struct {
	out   io.Writer
	total int
	done  int
	mu    sync.Mutex
}

// NewProgress creates a progress reporter for total steps.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done marks one step as finished and prints "[n/total] label... result".
func (p *Progress) Done(label, result string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	_, _ = fmt.Fprintf(p.out, "  [%d/%d] %s... %s\n", p.done, p.total, label, result)
}

// Log prints an informational message between steps.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
