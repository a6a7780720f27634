package store

import (
	"sync"
	"time"

	"fluxboard/internal/board"
	"fluxboard/internal/logger"
)

// DefaultSaveDelay is the quiet period before a scheduled snapshot is written.
const DefaultSaveDelay = 800 * time.Millisecond

// Writer persists a snapshot. *Store satisfies it.
type Writer interface {
	Save(board.Snapshot) error
}

// DebouncedSaver coalesces bursts of snapshots into a single trailing write.
// Write failures are logged and never surface to the caller of Schedule.
type DebouncedSaver struct {
	w     Writer
	delay time.Duration

	writeMu sync.Mutex // serializes writes so an older snapshot never lands last

	mu      sync.Mutex
	timer   *time.Timer
	pending *board.Snapshot
	closed  bool
}

// NewDebouncedSaver returns a saver writing through w after delay of quiet.
// A non-positive delay uses DefaultSaveDelay.
func NewDebouncedSaver(w Writer, delay time.Duration) *DebouncedSaver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &DebouncedSaver{w: w, delay: delay}
}

// Schedule replaces the pending snapshot and restarts the timer.
func (d *DebouncedSaver) Schedule(snap board.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = &snap
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *DebouncedSaver) fire() {
	// errors are already logged by Flush
	_ = d.Flush()
}

// Pending reports whether a snapshot is waiting to be written.
func (d *DebouncedSaver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush writes the pending snapshot now, if there is one.
func (d *DebouncedSaver) Flush() error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if snap == nil {
		return nil
	}
	if err := d.w.Save(*snap); err != nil {
		logger.Error("board save failed, changes kept in memory: %v", err)
		return err
	}
	return nil
}

// Close flushes and stops accepting new snapshots.
func (d *DebouncedSaver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush()
}
