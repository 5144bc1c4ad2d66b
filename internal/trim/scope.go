package trim

// listenerScope owns a set of unsubscribe funcs and releases them together.
// Release is idempotent, so every exit path can call it.
type listenerScope struct {
	releases []func()
}

func (s *listenerScope) add(unsubscribe func()) {
	if unsubscribe != nil {
		s.releases = append(s.releases, unsubscribe)
	}
}

// Release unsubscribes in reverse acquisition order.
func (s *listenerScope) Release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

func (s *listenerScope) held() int {
	return len(s.releases)
}
