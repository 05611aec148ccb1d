package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the recommended debounce duration for resize events
const DefaultResizeDuration = 50 * time.Millisecond

// ResizeSettledMsg is delivered once a burst of resizes has gone quiet.
type ResizeSettledMsg struct {
	Seq    uint64
	Width  int
	Height int
}

// ResizeDebouncer collapses bursts of terminal resize events. Every Resize
// schedules a tick; only the tick carrying the latest sequence is honored.
type ResizeDebouncer struct {
	mu       sync.Mutex
	duration time.Duration
	seq      uint64
}

// NewResizeDebouncer creates a debouncer for resize events
func NewResizeDebouncer(duration time.Duration) *ResizeDebouncer {
	if duration <= 0 {
		duration = DefaultResizeDuration
	}
	return &ResizeDebouncer{duration: duration}
}

// Resize records a resize and returns the command that reports it once the
// debounce window passes.
func (rd *ResizeDebouncer) Resize(width, height int) tea.Cmd {
	rd.mu.Lock()
	rd.seq++
	seq := rd.seq
	rd.mu.Unlock()

	return tea.Tick(rd.duration, func(time.Time) tea.Msg {
		return ResizeSettledMsg{Seq: seq, Width: width, Height: height}
	})
}

// Settle reports whether msg is the most recent resize. Superseded messages
// return false.
func (rd *ResizeDebouncer) Settle(msg ResizeSettledMsg) bool {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return msg.Seq == rd.seq
}

// Cancel invalidates any pending resize. The shop calls it on quit.
func (rd *ResizeDebouncer) Cancel() {
	rd.mu.Lock()
	rd.seq++
	rd.mu.Unlock()
}
