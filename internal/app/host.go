package app

import (
	"github.com/jwulff/trimbar/internal/geometry"
	"github.com/jwulff/trimbar/internal/player"
	"github.com/jwulff/trimbar/internal/trim"

	tea "github.com/charmbracelet/bubbletea"
)

// playerHost is the controller's view of the media surface. It caches the
// player's observed properties and turns seeks and window directives into
// commands; it never does I/O inside Update.
type playerHost struct {
	client   *player.Client
	layout   *layout
	duration float64
	position float64

	nextID  int
	subs    map[trim.HostEvent][]hostSub
	pending []tea.Cmd
}

type hostSub struct {
	id int
	fn func()
}

func newPlayerHost(l *layout) *playerHost {
	return &playerHost{
		layout: l,
		subs:   make(map[trim.HostEvent][]hostSub),
	}
}

func (h *playerHost) Duration() float64        { return h.duration }
func (h *playerHost) CurrentPosition() float64 { return h.position }
func (h *playerHost) TrackRect() geometry.Rect { return h.layout.trackRect() }

// SeekTo updates the cached position right away so the watcher does not
// fire again on a stale time-pos before the player catches up.
func (h *playerHost) SeekTo(seconds float64) {
	h.position = seconds
	if h.client != nil {
		h.pending = append(h.pending, seekCmd(h.client, seconds))
	}
}

func (h *playerHost) ApplyPlaybackWindow(r trim.Range) {
	if h.client != nil {
		h.pending = append(h.pending, windowCmd(h.client, r))
	}
}

func (h *playerHost) Subscribe(ev trim.HostEvent, fn func()) func() {
	h.nextID++
	id := h.nextID
	h.subs[ev] = append(h.subs[ev], hostSub{id: id, fn: fn})
	return func() {
		subs := h.subs[ev]
		for i, s := range subs {
			if s.id == id {
				h.subs[ev] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (h *playerHost) publish(ev trim.HostEvent) {
	for _, s := range append([]hostSub(nil), h.subs[ev]...) {
		s.fn()
	}
}

// handleEvent folds a player event into the cache and notifies subscribers.
func (h *playerHost) handleEvent(ev player.Event) {
	if ev.Event != player.EventPropertyChange {
		return
	}
	switch ev.Name {
	case player.PropDuration:
		d, ok := ev.Float()
		if !ok {
			return // unloaded; the next file reports again
		}
		h.duration = d
		h.publish(trim.EventDurationKnown)
	case player.PropTimePos:
		pos, ok := ev.Float()
		if !ok {
			return
		}
		h.position = pos
		h.publish(trim.EventTimeUpdate)
	}
}

// drain returns and clears the queued player commands.
func (h *playerHost) drain() []tea.Cmd {
	cmds := h.pending
	h.pending = nil
	return cmds
}

// frameQueue collects animation-frame callbacks until the next frame tick.
type frameQueue struct {
	queued []func()
}

func (f *frameQueue) RequestFrame(fn func()) {
	f.queued = append(f.queued, fn)
}

func (f *frameQueue) waiting() bool {
	return len(f.queued) > 0
}

// run executes the callbacks queued before this frame. Callbacks queued
// while running wait for the next frame.
func (f *frameQueue) run() {
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}

const trackPadding = 2

// layout is the live terminal geometry shared with the host.
type layout struct {
	width  int
	height int
}

// trackCols is the number of cells the track occupies.
func (l *layout) trackCols() int {
	return max(0, l.width-2*trackPadding)
}

// trackRect maps cell centers: column trackPadding is time 0 and the last
// track column is the full duration.
func (l *layout) trackRect() geometry.Rect {
	return geometry.Rect{Left: trackPadding, Width: float64(l.trackCols() - 1)}
}
