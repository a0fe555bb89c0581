package b2cflow

import "sync/atomic"

// sessionState tracks the UI-visible signed-in/out boolean. It is derived
// purely from the outcome of the most recent orchestration call and is
// never persisted.
type sessionState struct {
	signedIn atomic.Bool
}

func (s *sessionState) set(signedIn bool) {
	s.signedIn.Store(signedIn)
}

// SignedIn reports whether the last orchestration call left the session
// signed in. Presentation layers use it to decide which operations to
// offer; it carries no authorization meaning of its own.
func (c *Client) SignedIn() bool {
	if c == nil {
		return false
	}
	return c.session.signedIn.Load()
}
