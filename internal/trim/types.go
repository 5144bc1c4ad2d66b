// Package trim implements the trim-range controller: the drag state machine
// that turns pointer input into a validated [start, end] selection inside a
// media item's duration, and the watcher that keeps playback inside it.
//
// A Controller is single-threaded. Every method must be called from the
// host's event loop (bubbletea's Update in this repo).
package trim

import (
	"github.com/jwulff/trimbar/internal/geometry"
)

// Mode is the active drag mode. At most one is active per controller.
type Mode int

const (
	Idle Mode = iota
	DraggingStart
	DraggingEnd
	DraggingRange
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingStart:
		return "dragging-start"
	case DraggingEnd:
		return "dragging-end"
	case DraggingRange:
		return "dragging-range"
	default:
		return "unknown"
	}
}

// Dragging reports whether m is one of the three drag modes.
func (m Mode) Dragging() bool {
	return m == DraggingStart || m == DraggingEnd || m == DraggingRange
}

// Range is the selected window in seconds.
type Range struct {
	Start float64
	End   float64
}

// Length returns the trimmed duration.
func (r Range) Length() float64 {
	return r.End - r.Start
}

// Contains reports whether pos lies inside the window, bounds included.
func (r Range) Contains(pos float64) bool {
	return pos >= r.Start && pos <= r.End
}

// HostEvent names a notification published by the host media surface.
type HostEvent string

const (
	// EventDurationKnown fires once the media metadata (duration) is loaded.
	EventDurationKnown HostEvent = "durationknown"
	// EventTimeUpdate fires as the playback position advances.
	EventTimeUpdate HostEvent = "timeupdate"
)

// Host is the media surface the controller is attached to.
type Host interface {
	Duration() float64
	CurrentPosition() float64
	SeekTo(seconds float64)
	Subscribe(event HostEvent, fn func()) (unsubscribe func())
	// ApplyPlaybackWindow restricts effective playback to r.
	ApplyPlaybackWindow(r Range)
	// TrackRect returns the live geometry of the track. It is read on every
	// sample, never cached across a drag.
	TrackRect() geometry.Rect
}

// PointerKind distinguishes document-scope pointer notifications.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerUp
)

// Target is what a pointer press landed on.
type Target int

const (
	TargetNone Target = iota
	TargetStartHandle
	TargetEndHandle
	TargetRange
)

func (t Target) handle() bool {
	return t == TargetStartHandle || t == TargetEndHandle
}

func (t Target) String() string {
	switch t {
	case TargetStartHandle:
		return "start-handle"
	case TargetEndHandle:
		return "end-handle"
	case TargetRange:
		return "range"
	default:
		return "none"
	}
}

// PointerEvent is one pointer sample. ClientX is absolute, in the same units
// as the track rect.
type PointerEvent struct {
	ClientX float64
	Target  Target
}

// PointerScope is the document-wide pointer event source. Drag sessions
// subscribe here rather than on the track so drags keep tracking when the
// pointer leaves it.
type PointerScope interface {
	Subscribe(kind PointerKind, fn func(PointerEvent)) (unsubscribe func())
}

// FrameScheduler runs fn on the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}
