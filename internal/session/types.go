package session

import (
	"sync"

	"chatd/internal/engine"
	"chatd/pkg/types"
)

// State represents the lifecycle state of the controller.
type State string

const (
	StateUnselected State = "unselected"
	StateSelected   State = "selected"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

// Snapshot is a read-only projection of the controller state.
type Snapshot struct {
	State      State
	Selected   string
	Loaded     string
	LastError  string
	Generation uint64
	Progress   *engine.Progress
}

// engineSession wraps one constructed engine. inflight counts leases handed
// to the conversation layer; release waits for it to drain before Close.
type engineSession struct {
	gen      uint64
	model    types.Model
	engine   engine.Engine
	inflight sync.WaitGroup
}
