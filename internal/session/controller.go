package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/engine"
	"chatd/pkg/types"
)

// Controller is the engine lifecycle state machine. It exclusively owns the
// installed engine session; other packages reach it only through a Lease.
type Controller struct {
	mu          sync.RWMutex
	catalog     []types.Model
	factory     engine.Factory
	publisher   EventPublisher
	log         zerolog.Logger
	loadTimeout time.Duration

	state    State
	selected string
	lastErr  string
	progress *engine.Progress
	gen      uint64
	cur      *engineSession
	// cancelLoad cancels the context of the in-flight load, if any.
	cancelLoad context.CancelFunc
	resetHooks []func()
	closed     bool

	// bg tracks load goroutines and session releases so Close can wait for them.
	bg sync.WaitGroup
}

// Select records modelID as the pending selection. An installed engine is left
// alone until the next Load. Selecting while a load runs is rejected.
func (c *Controller) Select(modelID string) error {
	mdl, ok := c.getModelByID(modelID)
	if !ok {
		c.log.Debug().Str("event", "select_model_not_found").Str("model", modelID).Send()
		return ErrModelNotFound(modelID)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	c.selected = mdl.ID
	c.state = StateSelected
	c.lastErr = ""
	c.progress = nil
	gen := c.gen
	c.mu.Unlock()

	c.log.Info().Str("event", EventSelect).Str("model", mdl.ID).Uint64("gen", gen).Send()
	c.publisher.Publish(Event{Name: EventSelect, ModelID: mdl.ID, Generation: gen})
	return nil
}

// OnReset registers fn to run after every Reset, outside the controller lock.
func (c *Controller) OnReset(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.resetHooks = append(c.resetHooks, fn)
	c.mu.Unlock()
}

// Ready reports whether an engine is installed and accepting sends.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateReady && c.cur != nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// ListModels returns a copy of the catalog.
func (c *Controller) ListModels() []types.Model {
	out := make([]types.Model, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// getModelByID finds a catalog entry. The catalog is immutable after New.
func (c *Controller) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range c.catalog {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}
