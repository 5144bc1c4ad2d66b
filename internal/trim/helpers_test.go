package trim

import (
	"testing"
	"time"

	"github.com/jwulff/trimbar/internal/geometry"
	"github.com/rs/zerolog"
)

// fakeHost records every call the controller makes on the media surface.
type fakeHost struct {
	duration float64
	position float64
	rect     geometry.Rect
	seeks    []float64
	windows  []Range

	nextID int
	subs   map[HostEvent]map[int]func()
}

func newFakeHost(duration float64) *fakeHost {
	// one track unit per second, so ClientX reads as seconds
	return &fakeHost{
		duration: duration,
		rect:     geometry.Rect{Left: 0, Width: duration},
		subs:     make(map[HostEvent]map[int]func()),
	}
}

func (h *fakeHost) Duration() float64 { return h.duration }
func (h *fakeHost) CurrentPosition() float64 { return h.position }
func (h *fakeHost) SeekTo(s float64) { h.seeks = append(h.seeks, s) }
func (h *fakeHost) ApplyPlaybackWindow(r Range) { h.windows = append(h.windows, r) }
func (h *fakeHost) TrackRect() geometry.Rect { return h.rect }

func (h *fakeHost) Subscribe(ev HostEvent, fn func()) func() {
	h.nextID++
	id := h.nextID
	if h.subs[ev] == nil {
		h.subs[ev] = make(map[int]func())
	}
	h.subs[ev][id] = fn
	return func() { delete(h.subs[ev], id) }
}

func (h *fakeHost) fire(ev HostEvent) {
	for _, fn := range h.subs[ev] {
		fn()
	}
}

func (h *fakeHost) subscribers(ev HostEvent) int {
	return len(h.subs[ev])
}

// manualFrames runs requested frame callbacks only when tick is called.
type manualFrames struct {
	queued []func()
}

func (f *manualFrames) RequestFrame(fn func()) {
	f.queued = append(f.queued, fn)
}

func (f *manualFrames) tick() {
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}

// steppingClock advances by step on every read.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

type fixture struct {
	host   *fakeHost
	bus    *PointerBus
	frames *manualFrames
	ctrl   *Controller
}

func newFixture(t *testing.T, duration float64, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		host:   newFakeHost(duration),
		bus:    NewPointerBus(),
		frames: &manualFrames{},
	}
	if opts.Clock == nil {
		clock := &steppingClock{now: time.Unix(1000, 0), step: 10 * time.Millisecond}
		opts.Clock = clock.Now
	}
	opts.Logger = zerolog.Nop()
	f.ctrl = New(f.host, f.bus, f.frames, opts)
	f.ctrl.Attach()
	t.Cleanup(f.ctrl.Close)
	return f
}

// load reports metadata through the host subscription, as a player would.
func (f *fixture) load() {
	f.host.fire(EventDurationKnown)
}

func (f *fixture) move(x float64) {
	f.bus.Dispatch(PointerMove, PointerEvent{ClientX: x})
}

func (f *fixture) up() {
	f.bus.Dispatch(PointerUp, PointerEvent{})
}

func ptr(v float64) *float64 { return &v }
