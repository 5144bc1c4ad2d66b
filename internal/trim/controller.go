package trim

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jwulff/trimbar/internal/geometry"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultThrottle is the minimum spacing between processed drag samples.
	DefaultThrottle = 8 * time.Millisecond

	// DefaultHandleWidth is the hit-test width of a handle in track units.
	DefaultHandleWidth = 1.0
)

// Options configures a Controller.
type Options struct {
	// StartTime is applied as the initial start on every metadata load.
	StartTime *float64
	// EndOffset is subtracted from the duration to get the initial end.
	EndOffset *float64

	Throttle    time.Duration
	HandleWidth float64
	Clock       func() time.Time
	Logger      zerolog.Logger
}

// Controller owns the trim range of one media surface.
type Controller struct {
	id      string
	host    Host
	pointer PointerScope
	opts    Options
	log     zerolog.Logger

	duration float64
	rng      Range
	session  *dragSession

	render    renderQueue
	hostScope listenerScope
	listeners []changeListener
	nextID    int
}

type dragSession struct {
	mode    Mode
	width   float64
	limiter *rate.Limiter
	scope   listenerScope
}

type changeListener struct {
	id int
	fn func(Range)
}

// New creates an idle controller with an all-zero range. Call Attach to
// start receiving host events.
func New(host Host, pointer PointerScope, frames FrameScheduler, opts Options) *Controller {
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.HandleWidth <= 0 {
		opts.HandleWidth = DefaultHandleWidth
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	id := uuid.NewString()
	c := &Controller{
		id:      id,
		host:    host,
		pointer: pointer,
		opts:    opts,
		log:     opts.Logger.With().Str("controller", id).Logger(),
	}
	c.render = renderQueue{frames: frames, flush: c.emit}
	return c
}

// ID identifies the controller in logs.
func (c *Controller) ID() string { return c.id }

// Attach subscribes to the host's metadata and time-update notifications.
func (c *Controller) Attach() {
	if c.hostScope.held() > 0 {
		return
	}
	c.hostScope.add(c.host.Subscribe(EventDurationKnown, func() {
		c.OnDurationKnown(c.host.Duration())
	}))
	c.hostScope.add(c.host.Subscribe(EventTimeUpdate, c.onTimeUpdate))
}

// Close ends any drag, drops pending renders and detaches from the host.
func (c *Controller) Close() {
	c.Cancel()
	c.render.drop()
	c.hostScope.Release()
	c.listeners = nil
}

// CurrentRange returns the selection.
func (c *Controller) CurrentRange() Range { return c.rng }

// Duration returns the media duration, 0 until metadata is known.
func (c *Controller) Duration() float64 { return c.duration }

// Mode returns the active drag mode, Idle without a session.
func (c *Controller) Mode() Mode {
	if c.session == nil {
		return Idle
	}
	return c.session.mode
}

// Dragging reports whether a drag session is open.
func (c *Controller) Dragging() bool { return c.session != nil }

// OnChange registers fn for trim-range-changed notifications.
func (c *Controller) OnChange(fn func(Range)) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, changeListener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnDurationKnown resets the range for a newly loaded media item. The
// configured start is applied first, then the end is pulled up to it if the
// configured offset would put it earlier.
func (c *Controller) OnDurationKnown(duration float64) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		duration = 0
	}
	if c.session != nil {
		c.log.Debug().Msg("metadata changed mid-drag, cancelling session")
		c.Cancel()
	}

	c.duration = duration
	start, end := 0.0, duration
	if c.opts.StartTime != nil {
		start = *c.opts.StartTime
	}
	if c.opts.EndOffset != nil {
		end = duration - *c.opts.EndOffset
	}
	start = geometry.Clamp(start, 0, duration)
	end = geometry.Clamp(end, start, duration)
	c.rng = Range{Start: start, End: end}

	c.log.Info().
		Float64("duration", duration).
		Float64("start", start).
		Float64("end", end).
		Msg("duration known")

	c.render.drop()
	c.emit(c.rng)
}

// BeginDrag opens a drag session. Rejected requests leave the controller
// untouched.
func (c *Controller) BeginDrag(mode Mode, ev PointerEvent) error {
	if err := c.canBegin(mode, ev); err != nil {
		c.log.Debug().Err(err).Stringer("mode", mode).Stringer("target", ev.Target).Msg("drag rejected")
		return err
	}

	s := &dragSession{
		mode:    mode,
		width:   c.rng.Length(),
		limiter: rate.NewLimiter(rate.Every(c.opts.Throttle), 1),
	}
	s.scope.add(c.pointer.Subscribe(PointerMove, c.OnPointerMove))
	s.scope.add(c.pointer.Subscribe(PointerUp, func(PointerEvent) { c.EndDrag() }))
	c.session = s

	c.log.Debug().Stringer("mode", mode).Float64("x", ev.ClientX).Msg("drag started")
	return nil
}

func (c *Controller) canBegin(mode Mode, ev PointerEvent) error {
	switch {
	case c.session != nil:
		return ErrDragActive
	case !mode.Dragging():
		return ErrInvalidMode
	case mode == DraggingRange && ev.Target.handle():
		return ErrHandlePriority
	case c.duration <= 0:
		return ErrDurationUnknown
	}
	return nil
}

// Press hit-tests ev against the live handle positions and starts the
// matching drag.
func (c *Controller) Press(ev PointerEvent) error {
	ev.Target = c.TargetAt(ev.ClientX)
	switch ev.Target {
	case TargetStartHandle:
		return c.BeginDrag(DraggingStart, ev)
	case TargetEndHandle:
		return c.BeginDrag(DraggingEnd, ev)
	case TargetRange:
		return c.BeginDrag(DraggingRange, ev)
	}
	return ErrNoTarget
}

// TargetAt reports what lies under x on the track. Handles take priority
// over the range body; when both handles overlap the one that can still
// move wins.
func (c *Controller) TargetAt(x float64) Target {
	rect := c.host.TrackRect()
	if rect.Degenerate() || c.duration <= 0 {
		return TargetNone
	}
	startX := geometry.FractionToPixel(geometry.TimeToFraction(c.rng.Start, c.duration), rect)
	endX := geometry.FractionToPixel(geometry.TimeToFraction(c.rng.End, c.duration), rect)
	half := c.opts.HandleWidth / 2

	onStart := math.Abs(x-startX) <= half
	onEnd := math.Abs(x-endX) <= half
	switch {
	case onStart && onEnd:
		if math.Abs(x-startX) < math.Abs(x-endX) {
			return TargetStartHandle
		}
		if math.Abs(x-endX) < math.Abs(x-startX) {
			return TargetEndHandle
		}
		if c.rng.End >= c.duration {
			return TargetStartHandle
		}
		return TargetEndHandle
	case onStart:
		return TargetStartHandle
	case onEnd:
		return TargetEndHandle
	case x > startX && x < endX:
		return TargetRange
	}
	return TargetNone
}

// OnPointerMove applies one drag sample. Samples arriving faster than the
// throttle are dropped; each carries an absolute position so nothing is lost.
func (c *Controller) OnPointerMove(ev PointerEvent) {
	s := c.session
	if s == nil {
		return
	}
	if !s.limiter.AllowN(c.opts.Clock(), 1) {
		return
	}

	t := geometry.PixelToTime(ev.ClientX, c.host.TrackRect(), c.duration)
	c.apply(s.mode, t, s.width)
	c.render.push(c.rng)
}

// apply is the single update rule for all drag modes.
func (c *Controller) apply(mode Mode, t, width float64) {
	switch mode {
	case DraggingStart:
		c.rng.Start = geometry.Clamp(t, 0, c.rng.End)
	case DraggingEnd:
		c.rng.End = geometry.Clamp(t, c.rng.Start, c.duration)
	case DraggingRange:
		start := geometry.Clamp(t, 0, c.duration-width)
		c.rng.Start = start
		c.rng.End = math.Min(start+width, c.duration)
	}
}

// EndDrag closes the session and resets playback to the range start.
func (c *Controller) EndDrag() {
	if c.session == nil {
		return
	}
	mode := c.session.mode
	c.release()
	c.host.SeekTo(c.rng.Start)

	c.log.Debug().
		Stringer("mode", mode).
		Float64("start", c.rng.Start).
		Float64("end", c.rng.End).
		Msg("drag ended")
}

// Cancel closes the session without touching playback. Used when the
// pointer-up can no longer arrive, e.g. the terminal lost focus.
func (c *Controller) Cancel() {
	if c.session == nil {
		return
	}
	c.release()
	c.log.Debug().Msg("drag cancelled")
}

func (c *Controller) release() {
	c.session.scope.Release()
	c.session = nil
}

// Nudge moves the boundary selected by mode by delta seconds while idle,
// using the same clamping rules as a drag.
func (c *Controller) Nudge(mode Mode, delta float64) error {
	switch {
	case c.session != nil:
		return ErrDragActive
	case !mode.Dragging():
		return ErrInvalidMode
	case c.duration <= 0:
		return ErrDurationUnknown
	}

	base := c.rng.Start
	if mode == DraggingEnd {
		base = c.rng.End
	}
	c.apply(mode, base+delta, c.rng.Length())
	c.render.push(c.rng)
	return nil
}

func (c *Controller) emit(r Range) {
	c.host.ApplyPlaybackWindow(r)
	for _, l := range append([]changeListener(nil), c.listeners...) {
		l.fn(r)
	}
}
