package progress

import "time"

// throttle.go decides when a redraw is due.

// Gate rate-limits redraws. The first evaluation always passes; later ones
// pass only once timeout has elapsed since the last passing evaluation.
// Suppressed evaluations leave the reference timestamp untouched.
type Gate struct {
	timeout time.Duration
	last    time.Time
	seen    bool
}

// NewGate creates a gate with the given minimum interval between draws.
// Negative timeouts behave like zero, which lets every call through.
func NewGate(timeout time.Duration) *Gate {
	if timeout < 0 {
		timeout = 0
	}
	return &Gate{timeout: timeout}
}

// ShouldDraw reports whether a redraw is due at now.
func (g *Gate) ShouldDraw(now time.Time) bool {
	if !g.seen {
		g.seen = true
		g.last = now
		return true
	}
	if now.Sub(g.last) < g.timeout {
		return false
	}
	g.last = now
	return true
}

// Timeout returns the minimum interval between draws.
func (g *Gate) Timeout() time.Duration {
	return g.timeout
}

// SetTimeout changes the interval without forgetting the last draw time.
func (g *Gate) SetTimeout(timeout time.Duration) {
	if timeout < 0 {
		timeout = 0
	}
	g.timeout = timeout
}

// Reset forgets the last draw so the next evaluation passes.
func (g *Gate) Reset() {
	g.seen = false
	g.last = time.Time{}
}
