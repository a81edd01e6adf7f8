package session

// Event represents a controller lifecycle event.
// Minimal and stable: name + model ID + generation and optional fields.
type Event struct {
	Name       string         `json:"name"`
	ModelID    string         `json:"model_id,omitempty"`
	Generation uint64         `json:"generation"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Event names.
const (
	EventSelect       = "select"
	EventLoadStart    = "load_start"
	EventLoadProgress = "load_progress"
	EventLoadReady    = "load_ready"
	EventLoadFailed   = "load_failed"
	EventLoadStale    = "load_stale"
	EventReset        = "reset"
)

// EventPublisher receives events from the controller. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans an event out to several publishers in order.
type MultiPublisher []EventPublisher

func (mp MultiPublisher) Publish(e Event) {
	for _, p := range mp {
		if p != nil {
			p.Publish(e)
		}
	}
}
