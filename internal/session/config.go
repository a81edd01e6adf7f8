package session

import (
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/engine"
	"chatd/pkg/types"
)

// Config encapsulates all tunables for Controller construction.
type Config struct {
	// Catalog is the static, ordered model catalog.
	Catalog []types.Model
	// Factory builds engines. Required.
	Factory engine.Factory
	// Publisher receives lifecycle and progress events. Defaults to a no-op.
	Publisher EventPublisher
	// Logger for lifecycle logging. Defaults to zerolog.Nop().
	Logger *zerolog.Logger
	// LoadTimeout bounds engine construction; zero means no limit.
	LoadTimeout time.Duration
}

// New constructs a Controller in state unselected.
func New(cfg Config) *Controller {
	c := &Controller{
		catalog:     append([]types.Model(nil), cfg.Catalog...),
		factory:     cfg.Factory,
		publisher:   cfg.Publisher,
		loadTimeout: cfg.LoadTimeout,
		state:       StateUnselected,
	}
	if c.publisher == nil {
		c.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "session").Logger()
	} else {
		c.log = zerolog.Nop()
	}
	if c.loadTimeout < 0 {
		c.loadTimeout = 0
	}
	return c
}
