package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chatd/internal/engine"
	"chatd/pkg/types"
)

// LoadOp describes one load attempt. Done is closed once the attempt resolves,
// whether it installed an engine, failed, or was superseded.
type LoadOp struct {
	ID         string
	Generation uint64
	ModelID    string

	done chan struct{}
	err  error
}

// Done returns a channel closed when the load resolves.
func (op *LoadOp) Done() <-chan struct{} { return op.done }

// Wait blocks until the load resolves or ctx is done. It returns the
// construction error, ErrSuperseded for a stale attempt, or nil on success.
func (op *LoadOp) Wait(ctx context.Context) error {
	select {
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load starts constructing an engine for the selected model. Any installed
// engine is released first, so at most one engine exists at a time. The call
// returns immediately; observe the outcome through the returned LoadOp, the
// event publisher, or Snapshot.
func (c *Controller) Load() (*LoadOp, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return nil, ErrLoadInProgress
	}
	if c.selected == "" {
		c.mu.Unlock()
		return nil, ErrNoSelection
	}
	mdl, _ := c.getModelByID(c.selected)
	c.gen++
	gen := c.gen
	prev := c.cur
	c.cur = nil
	c.state = StateLoading
	c.lastErr = ""
	c.progress = nil

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.loadTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.loadTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	c.cancelLoad = cancel
	op := &LoadOp{ID: uuid.NewString(), Generation: gen, ModelID: mdl.ID, done: make(chan struct{})}
	c.bg.Add(1)
	c.mu.Unlock()

	c.release(prev)
	c.log.Info().Str("event", EventLoadStart).Str("model", mdl.ID).Uint64("gen", gen).Str("op", op.ID).Send()
	c.publisher.Publish(Event{Name: EventLoadStart, ModelID: mdl.ID, Generation: gen, Fields: map[string]any{"op": op.ID}})

	go c.runLoad(ctx, cancel, op, mdl)
	return op, nil
}

// runLoad constructs the engine and commits the result only if op's generation
// is still current.
func (c *Controller) runLoad(ctx context.Context, cancel context.CancelFunc, op *LoadOp, mdl types.Model) {
	defer c.bg.Done()
	defer close(op.done)
	defer cancel()

	start := time.Now()
	sink := func(p engine.Progress) { c.applyProgress(op.Generation, mdl.ID, p) }
	eng, err := c.construct(ctx, mdl, sink)
	dur := time.Since(start)

	c.mu.Lock()
	if op.Generation != c.gen {
		c.mu.Unlock()
		op.err = ErrSuperseded
		staleCallbacksTotal.WithLabelValues("load").Inc()
		loadsTotal.WithLabelValues("stale").Inc()
		loadDuration.WithLabelValues("stale").Observe(dur.Seconds())
		if eng != nil {
			if cerr := eng.Close(); cerr != nil {
				c.log.Warn().Err(cerr).Str("model", mdl.ID).Msg("close stale engine")
			}
		}
		c.log.Info().Str("event", EventLoadStale).Str("model", mdl.ID).Uint64("gen", op.Generation).Send()
		c.publisher.Publish(Event{Name: EventLoadStale, ModelID: mdl.ID, Generation: op.Generation, Fields: map[string]any{"op": op.ID}})
		return
	}
	c.cancelLoad = nil
	if err != nil {
		c.state = StateFailed
		c.lastErr = err.Error()
		c.mu.Unlock()
		op.err = err
		loadsTotal.WithLabelValues("failed").Inc()
		loadDuration.WithLabelValues("failed").Observe(dur.Seconds())
		c.log.Warn().Str("event", EventLoadFailed).Str("model", mdl.ID).Uint64("gen", op.Generation).Err(err).Send()
		c.publisher.Publish(Event{Name: EventLoadFailed, ModelID: mdl.ID, Generation: op.Generation, Fields: map[string]any{"op": op.ID, "error": err.Error()}})
		return
	}
	c.cur = &engineSession{gen: op.Generation, model: mdl, engine: eng}
	c.state = StateReady
	c.mu.Unlock()

	loadsTotal.WithLabelValues("ready").Inc()
	loadDuration.WithLabelValues("ready").Observe(dur.Seconds())
	c.log.Info().Str("event", EventLoadReady).Str("model", mdl.ID).Uint64("gen", op.Generation).Dur("dur", dur).Send()
	c.publisher.Publish(Event{Name: EventLoadReady, ModelID: mdl.ID, Generation: op.Generation, Fields: map[string]any{"op": op.ID, "dur_ms": dur.Milliseconds()}})
}

// construct calls the factory, converting a panic or a nil engine into an error
// so a broken backend never leaves the controller stuck in loading.
func (c *Controller) construct(ctx context.Context, mdl types.Model, sink engine.ProgressSink) (eng engine.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			eng, err = nil, constructionPanic{v: r}
		}
	}()
	if c.factory == nil {
		return nil, engine.ErrDependencyUnavailable("no engine factory configured")
	}
	eng, err = c.factory.Construct(ctx, mdl, sink)
	if err == nil && eng == nil {
		err = engine.ErrDependencyUnavailable("engine factory returned no engine")
	}
	if err != nil && eng != nil {
		_ = eng.Close()
		eng = nil
	}
	return eng, err
}

// applyProgress records p and forwards it to the publisher if gen is still the
// loading generation; late progress from superseded loads is discarded.
func (c *Controller) applyProgress(gen uint64, modelID string, p engine.Progress) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateLoading {
		c.mu.Unlock()
		staleCallbacksTotal.WithLabelValues("progress").Inc()
		return
	}
	pc := p
	c.progress = &pc
	c.mu.Unlock()

	c.log.Debug().Str("event", EventLoadProgress).Str("model", modelID).Uint64("gen", gen).Float64("fraction", p.Fraction).Str("text", p.Text).Send()
	c.publisher.Publish(Event{Name: EventLoadProgress, ModelID: modelID, Generation: gen, Fields: map[string]any{
		"fraction":   p.Fraction,
		"text":       p.Text,
		"elapsed_ms": p.Elapsed.Milliseconds(),
	}})
}
