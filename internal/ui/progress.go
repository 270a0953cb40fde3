package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	progressWidth    = 40
	progressInterval = 100 * time.Millisecond
)

// ProgressBar renders upload progress on a terminal line.
// Its Update method matches upload.ProgressFunc.
type ProgressBar struct {
	mu         sync.Mutex
	w          io.Writer
	label      string
	startTime  time.Time
	lastUpdate time.Time
	done       bool
}

// NewProgressBar creates a bar that writes to w, prefixed by label.
func NewProgressBar(w io.Writer, label string) *ProgressBar {
	return &ProgressBar{
		w:         w,
		label:     label,
		startTime: time.Now(),
	}
}

// Update redraws the bar for sent of total bytes. Redraws are throttled
// except for the final one, which also ends the line.
func (b *ProgressBar) Update(sent, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	complete := total <= 0 || sent >= total
	if !complete && time.Since(b.lastUpdate) < progressInterval {
		return
	}
	b.lastUpdate = time.Now()

	ratio := 1.0
	if total > 0 {
		ratio = float64(sent) / float64(total)
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(float64(progressWidth) * ratio)

	elapsed := time.Since(b.startTime).Seconds()
	if elapsed == 0 {
		elapsed = 0.0001
	}
	speed := float64(sent) / (1024 * 1024) / elapsed

	fmt.Fprintf(b.w, "\r%s [%s%s] %.1f%% (%.2f MB/s)",
		b.label,
		strings.Repeat("█", filled),
		strings.Repeat("░", progressWidth-filled),
		ratio*100,
		speed,
	)
	if complete {
		fmt.Fprintln(b.w)
		b.done = true
	}
}
