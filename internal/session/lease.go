package session

import (
	"sync"

	"chatd/internal/engine"
)

// Lease is a non-owning reference to the Ready engine. The engine stays open
// until every lease on it is released, even if the controller moved on.
type Lease struct {
	c    *Controller
	s    *engineSession
	once sync.Once
}

// Acquire returns a lease on the installed engine, or ErrNotReady unless the
// controller is in state ready.
func (c *Controller) Acquire() (*Lease, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady || c.cur == nil {
		return nil, ErrNotReady
	}
	c.cur.inflight.Add(1)
	return &Lease{c: c, s: c.cur}, nil
}

// Engine returns the leased engine.
func (l *Lease) Engine() engine.Engine { return l.s.engine }

// Generation returns the generation the leased session was built in.
func (l *Lease) Generation() uint64 { return l.s.gen }

// ModelID returns the model the leased engine was built from.
func (l *Lease) ModelID() string { return l.s.model.ID }

// Current reports whether the leased session is still the installed one.
// Results obtained through a non-current lease must be discarded.
func (l *Lease) Current() bool {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()
	return l.c.cur == l.s && l.c.gen == l.s.gen
}

// Release ends the lease. Safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(l.s.inflight.Done)
}
