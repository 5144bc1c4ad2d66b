package trim

// PointerBus is an in-process PointerScope. The host dispatches every
// pointer sample it receives; each controller only sees samples while it
// holds a subscription.
type PointerBus struct {
	nextID   int
	handlers map[PointerKind][]pointerHandler
}

type pointerHandler struct {
	id int
	fn func(PointerEvent)
}

// NewPointerBus returns an empty bus.
func NewPointerBus() *PointerBus {
	return &PointerBus{handlers: make(map[PointerKind][]pointerHandler)}
}

// Subscribe registers fn for kind. The returned func is idempotent.
func (b *PointerBus) Subscribe(kind PointerKind, fn func(PointerEvent)) func() {
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], pointerHandler{id: id, fn: fn})

	return func() {
		hs := b.handlers[kind]
		for i, h := range hs {
			if h.id == id {
				b.handlers[kind] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to every handler registered for kind. Handlers may
// unsubscribe while being dispatched.
func (b *PointerBus) Dispatch(kind PointerKind, ev PointerEvent) {
	hs := append([]pointerHandler(nil), b.handlers[kind]...)
	for _, h := range hs {
		h.fn(ev)
	}
}

// Len returns the number of handlers registered for kind.
func (b *PointerBus) Len(kind PointerKind) int {
	return len(b.handlers[kind])
}
