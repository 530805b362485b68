package pshost

import "sync"

// ExitSink receives exit requests from the engine.
type ExitSink interface {
	RequestExit(code int)
}

// ExitRequest is the application's record of whether the engine asked to
// exit, and with which code. The last request wins and cannot be undone.
type ExitRequest struct {
	mu         sync.Mutex
	shouldExit bool
	exitCode   int
}

var _ ExitSink = (*ExitRequest)(nil)

// RequestExit records an exit request with code.
func (r *ExitRequest) RequestExit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shouldExit = true
	r.exitCode = code
}

// ShouldExit reports whether an exit has been requested.
func (r *ExitRequest) ShouldExit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shouldExit
}

// ExitCode returns the code of the last exit request, or 0.
func (r *ExitRequest) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode
}
