package session

import (
	"errors"
	"fmt"
)

// Rejections. None of these change controller state.
var (
	// ErrNoSelection is returned by Load when no model is selected.
	ErrNoSelection = errors.New("no model selected")
	// ErrLoadInProgress is returned by Select and Load while a load is running.
	ErrLoadInProgress = errors.New("load in progress")
	// ErrNotReady is returned by Acquire unless an engine is ready.
	ErrNotReady = errors.New("engine not ready")
	// ErrSuperseded is reported by LoadOp.Wait when a reset or a newer load
	// replaced the operation before it finished. State is left untouched.
	ErrSuperseded = errors.New("load superseded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("controller closed")
)

// modelNotFoundError is returned when a model id is not present in the catalog.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns a model-not-found error for id.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// constructionPanic wraps a panic raised by an engine factory.
type constructionPanic struct{ v any }

func (e constructionPanic) Error() string { return fmt.Sprintf("engine construction panicked: %v", e.v) }
