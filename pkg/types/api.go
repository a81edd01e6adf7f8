package types

// ModelsResponse wraps the catalog returned by GET /models.
type ModelsResponse struct {
	// Catalog entries in their fixed order.
	Models []Model `json:"models"`
}

// SelectRequest is the body of POST /select.
type SelectRequest struct {
	// Catalog id to select.
	// example: tinyllama-q4
	Model string `json:"model" example:"tinyllama-q4"`
}

// LoadResponse is returned by POST /load once construction has been started.
type LoadResponse struct {
	// Operation id of the load; also carried on load_* events.
	// example: 0b7e5c1e-7a57-4c39-9a0c-3f5f0c1b2a11
	OperationID string `json:"operation_id" example:"0b7e5c1e-7a57-4c39-9a0c-3f5f0c1b2a11"`
	// Generation allocated to this load.
	// example: 3
	Generation uint64 `json:"generation" example:"3"`
	// Model being loaded.
	// example: tinyllama-q4
	Model string `json:"model" example:"tinyllama-q4"`
}

// Progress mirrors the last progress value reported by the engine factory.
type Progress struct {
	// Completion fraction in [0,1] when the backend knows it.
	// example: 0.5
	Fraction float64 `json:"fraction" example:"0.5"`
	// Backend-provided description.
	// example: loading weights
	Text string `json:"text,omitempty" example:"loading weights"`
	// Milliseconds since the load started.
	// example: 1200
	ElapsedMS int64 `json:"elapsed_ms" example:"1200"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state: unselected, selected, loading, ready or failed.
	// example: ready
	State string `json:"state" example:"ready"`
	// Currently selected catalog id, if any.
	// example: tinyllama-q4
	Selected string `json:"selected,omitempty" example:"tinyllama-q4"`
	// Model of the installed engine, if any.
	// example: tinyllama-q4
	Loaded string `json:"loaded,omitempty" example:"tinyllama-q4"`
	// Error of the last failed load (only in state failed).
	LastError string `json:"last_error,omitempty"`
	// Current generation id.
	// example: 2
	Generation uint64 `json:"generation" example:"2"`
	// Last progress value of the current load.
	Progress *Progress `json:"progress,omitempty"`
	// True while a send is waiting on the engine.
	// example: false
	Pending bool `json:"pending" example:"false"`
	// Number of entries in the conversation log.
	// example: 4
	Entries int `json:"entries" example:"4"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// Entry is one conversation log entry.
type Entry struct {
	// Speaker: user, assistant or system_error.
	// example: assistant
	Speaker string `json:"speaker" example:"assistant"`
	// Entry text.
	// example: 4
	Text string `json:"text" example:"4"`
}

// MessagesResponse is returned by GET /messages.
type MessagesResponse struct {
	// Conversation log in append order.
	Entries []Entry `json:"entries"`
	// Pending input buffer.
	Input string `json:"input"`
	// True while a send is waiting on the engine.
	Pending bool `json:"pending"`
}

// InputRequest is the body of PUT /input.
type InputRequest struct {
	// New contents of the pending input buffer.
	// example: what is 2+2?
	Text string `json:"text" example:"what is 2+2?"`
}

// SendRequest is the body of POST /send. An empty message submits the pending input buffer.
type SendRequest struct {
	// Message to send.
	// example: what is 2+2?
	Message string `json:"message" example:"what is 2+2?"`
}

// SendResponse lists the entries appended by a send.
type SendResponse struct {
	// Appended entries: the user entry followed by the reply (or error) entry.
	Appended []Entry `json:"appended"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
