package bench

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

const progressBarWidth = 40

// ProgressBar renders a single-line terminal progress bar. Add may be
// called from any worker; rendering is serialized and throttled to whole
// percent changes so the bar does not dominate the workload.
type ProgressBar struct {
	w     io.Writer
	total uint64

	current atomic.Uint64

	mu          sync.Mutex
	lastPercent int
}

// NewProgressBar creates a bar for total steps writing to w.
func NewProgressBar(w io.Writer, total uint64) *ProgressBar {
	if total == 0 {
		total = 1
	}
	return &ProgressBar{w: w, total: total, lastPercent: -1}
}

// Add advances the bar by n steps.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (p *ProgressBar) Add(n uint64) {
	current := p.current.Add(n)
	percent := int(current * 100 / p.total)
	if percent > 100 {
		percent = 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if percent == p.lastPercent {
		return
	}
	p.lastPercent = percent

	filled := percent * progressBarWidth / 100
	fmt.Fprintf(p.w, "\r[%s%s] %3d%%",
		strings.Repeat("=", filled),
		strings.Repeat(" ", progressBarWidth-filled),
		percent)
}

// Finish completes the bar and terminates the line.
func (p *ProgressBar) Finish() {
	if current := p.current.Load(); current < p.total {
		p.Add(p.total - current)
	} else {
		p.Add(0)
	}
	fmt.Fprintln(p.w)
}
