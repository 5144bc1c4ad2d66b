package trim

// renderQueue coalesces render requests to at most one per frame. A push
// while a frame is already requested overwrites the pending payload.
type renderQueue struct {
	frames  FrameScheduler
	flush   func(Range)
	pending Range
	armed   bool
	gen     uint64
}

func (q *renderQueue) push(r Range) {
	q.pending = r
	if q.armed {
		return
	}
	q.armed = true
	gen := q.gen
	q.frames.RequestFrame(func() {
		if !q.armed || gen != q.gen {
			return
		}
		q.armed = false
		q.flush(q.pending)
	})
}

// drop discards the pending payload; an already requested frame becomes a
// no-op.
func (q *renderQueue) drop() {
	q.armed = false
	q.gen++
}
