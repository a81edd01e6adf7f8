package engine

import "errors"

// dependencyUnavailableError signals a missing runtime dependency (e.g., llama.cpp
// not compiled in, or no API key for a remote backend).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}

// ErrClosed is returned by Complete after the engine was closed.
var ErrClosed = errors.New("engine closed")
