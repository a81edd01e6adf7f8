package session

import (
	"chatd/internal/engine"
	"chatd/pkg/types"
)

// Snapshot returns a read-only view of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		State:      c.state,
		Selected:   c.selected,
		LastError:  c.lastErr,
		Generation: c.gen,
	}
	if c.cur != nil {
		snap.Loaded = c.cur.model.ID
	}
	if c.progress != nil {
		p := *c.progress
		snap.Progress = &p
	}
	return snap
}

// Status projects the snapshot onto the wire status type. Conversation fields
// are left for the caller to fill.
func (c *Controller) Status() types.StatusResponse {
	snap := c.Snapshot()
	return types.StatusResponse{
		State:      string(snap.State),
		Selected:   snap.Selected,
		Loaded:     snap.Loaded,
		LastError:  snap.LastError,
		Generation: snap.Generation,
		Progress:   progressView(snap.Progress),
	}
}

func progressView(p *engine.Progress) *types.Progress {
	if p == nil {
		return nil
	}
	return &types.Progress{Fraction: p.Fraction, Text: p.Text, ElapsedMS: p.Elapsed.Milliseconds()}
}
