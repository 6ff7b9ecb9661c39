// Package timetravel holds the continuous signed hour offset that lets a
// user preview a different moment without changing the real reference
// instant, plus the drag state machine that mutates it. The offset is
// session-only state: it always resets to zero on reload and is read by
// the grid generator only at render time.
package timetravel

import "math"

// Mode identifies the active drag gesture. Time-travel drags and row
// reorder drags are mutually exclusive; at most one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDraggingTime
	ModeDraggingReorder
)

// Travel owns the time-travel offset. The zero value is ready to use and
// unbounded; use WithClamp to bound it.
type Travel struct {
	hours     float64
	clamp     float64 // 0 means unbounded
	mode      Mode
	baseline  float64 // offset at drag start
	startX    float64 // pointer coordinate at drag start
	cellWidth float64
	fromRow   int
	curRow    int
}

// Option configures a Travel.
type Option func(*Travel)

// WithClamp bounds the offset to [-hours, +hours]. The two observed
// deployments of this engine disagree on whether to clamp, so the bound
// is configurable rather than hardcoded.
func WithClamp(hours float64) Option {
	return func(t *Travel) { t.clamp = hours }
}

// New returns a Travel with offset zero.
func New(opts ...Option) *Travel {
	t := &Travel{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Hours returns the current offset in hours. Zero means "now".
func (t *Travel) Hours() float64 { return t.hours }

// Mode reports the active gesture mode.
func (t *Travel) Mode() Mode { return t.mode }

// Step adjusts the offset by whole hours (keyboard control).
func (t *Travel) Step(hours int) {
	t.set(t.hours + float64(hours))
}

// Seek jumps directly to an offset, honoring the clamp. Interactive hosts
// mutate via drags and steps; non-interactive hosts (CLI flags, server
// query params) land here.
func (t *Travel) Seek(hours float64) {
	t.set(hours)
}

// Reset snaps the offset back to exactly zero.
func (t *Travel) Reset() { t.hours = 0 }

// StartTimeDrag begins a time-travel drag at pointer coordinate x, with
// cellWidth pixels per hour cell. It reports false if another drag is
// already active or cellWidth is not positive.
func (t *Travel) StartTimeDrag(x, cellWidth float64) bool {
	if t.mode != ModeIdle || cellWidth <= 0 {
		return false
	}
	t.mode = ModeDraggingTime
	t.baseline = t.hours
	t.startX = x
	t.cellWidth = cellWidth
	return true
}

// Drag updates the offset from the pointer's current coordinate. Dragging
// toward the past (positive delta) increases the offset. Ignored unless a
// time drag is active.
func (t *Travel) Drag(x float64) {
	if t.mode != ModeDraggingTime {
		return
	}
	t.set(t.baseline - (x-t.startX)/t.cellWidth)
}

// StartReorderDrag begins a row reorder drag from the given list index.
// It reports false if another drag is already active.
func (t *Travel) StartReorderDrag(row int) bool {
	if t.mode != ModeIdle {
		return false
	}
	t.mode = ModeDraggingReorder
	t.fromRow = row
	t.curRow = row
	return true
}

// DragRow updates the row the pointer is currently over. Ignored unless a
// reorder drag is active.
func (t *Travel) DragRow(row int) {
	if t.mode != ModeDraggingReorder {
		return
	}
	t.curRow = row
}

// EndDrag finalizes the active drag and returns to idle. Releasing the
// pointer is the only exit from a drag mode; there is no separate cancel
// path. For a reorder drag it returns the source and destination rows and
// moved=true when they differ.
func (t *Travel) EndDrag() (from, to int, moved bool) {
	switch t.mode {
	case ModeDraggingTime:
		t.mode = ModeIdle
	case ModeDraggingReorder:
		from, to = t.fromRow, t.curRow
		moved = from != to
		t.mode = ModeIdle
	case ModeIdle:
	}
	return from, to, moved
}

func (t *Travel) set(hours float64) {
	if t.clamp > 0 {
		hours = math.Max(-t.clamp, math.Min(t.clamp, hours))
	}
	t.hours = hours
}
