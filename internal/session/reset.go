package session

// Reset releases any engine, clears the selection, returns to unselected and
// runs the reset hooks. It is idempotent and allowed from every state. A load
// in flight is superseded: its context is canceled and its eventual result is
// discarded by the generation check.
func (c *Controller) Reset() {
	c.reset(false)
}

// reset does the work of Reset. With closing set, the controller is marked
// closed in the same critical section so no Load can start in between.
func (c *Controller) reset(closing bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = closing
	c.gen++
	gen := c.gen
	prev := c.cur
	c.cur = nil
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.selected = ""
	c.state = StateUnselected
	c.lastErr = ""
	c.progress = nil
	hooks := append([]func(){}, c.resetHooks...)
	c.mu.Unlock()

	c.release(prev)
	for _, fn := range hooks {
		fn()
	}
	resetsTotal.Inc()
	c.log.Info().Str("event", EventReset).Uint64("gen", gen).Send()
	c.publisher.Publish(Event{Name: EventReset, Generation: gen})
}

// release drains in-flight leases of s and closes its engine in the
// background so callers never block on a completion in progress.
func (c *Controller) release(s *engineSession) {
	if s == nil {
		return
	}
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		s.inflight.Wait()
		if err := s.engine.Close(); err != nil {
			c.log.Warn().Err(err).Str("model", s.model.ID).Uint64("gen", s.gen).Msg("close engine")
			return
		}
		c.log.Debug().Str("event", "engine_closed").Str("model", s.model.ID).Uint64("gen", s.gen).Send()
	}()
}

// Close resets the controller, rejects further operations and waits for
// background loads and engine releases to finish.
func (c *Controller) Close() error {
	c.reset(true)
	c.bg.Wait()
	return nil
}
