// Package session tracks which runspace interactive input is redirected to.
//
// A host starts out executing in its local runspace. Enter-PSSession pushes
// a remote runspace on top of it and Exit-PSSession pops back:
//
//	Local ──Push──→ Pushed ──Push──→ Pushed (depth 2)
//	  ↑               │
//	  └──────Pop──────┘
//
// Exactly one runspace is active at any time. The saved runspaces form a
// stack, so nested pushes unwind one level per Pop. Pop with nothing pushed
// fails with ErrNotPushed and leaves the state unchanged.
package session

import (
	"errors"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/smnsjas/go-pshost/host"
)

var (
	// ErrNotPushed is returned by Pop when no runspace is pushed.
	ErrNotPushed = errors.New("no runspace is pushed")
	// ErrNilRunspace is returned when a nil runspace is pushed or used as the root.
	ErrNilRunspace = errors.New("runspace is nil")
)

// Transition identifies a state change reported to observers.
type Transition int

const (
	// TransitionPush marks a runspace becoming active on top of another.
	TransitionPush Transition = iota
	// TransitionPop marks a saved runspace being restored.
	TransitionPop
)

// String returns a string representation of the transition.
func (t Transition) String() string {
	if t == TransitionPush {
		return "Push"
	}
	return "Pop"
}

// Event describes a completed transition.
type Event struct {
	Transition Transition
	// Active is the runspace active after the transition.
	Active host.Runspace
	// Previous is the runspace that was active before it.
	Previous host.Runspace
	// Depth is the number of saved runspaces after the transition.
	Depth int
}

// Observer is notified after every transition, outside the stack's lock.
type Observer func(Event)

// Option configures a Stack.
type Option func(*Stack)

// WithObserver registers an observer. Multiple observers run in order.
func WithObserver(o Observer) Option {
	return func(s *Stack) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// Stack is the runspace redirection state. It is safe for concurrent use.
type Stack struct {
	mu        sync.Mutex
	active    host.Runspace
	saved     []host.Runspace
	observers []Observer
}

// NewStack creates a Stack whose active runspace is local.
func NewStack(local host.Runspace, opts ...Option) (*Stack, error) {
	if isNil(local) {
		return nil, ErrNilRunspace
	}
	s := &Stack{active: local}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Active returns the runspace pipelines currently target.
func (s *Stack) Active() host.Runspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Pushed returns the runspace a single Pop would restore, or nil.
func (s *Stack) Pushed() host.Runspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

// IsPushed reports whether a pushed runspace is active.
func (s *Stack) IsPushed() bool {
	return s.Depth() > 0
}

// Depth returns the number of saved runspaces.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// Push saves the active runspace and makes rs active.
func (s *Stack) Push(rs host.Runspace) error {
	if isNil(rs) {
		return ErrNilRunspace
	}

	s.mu.Lock()
	prev := s.active
	s.saved = append(s.saved, prev)
	s.active = rs
	ev := Event{Transition: TransitionPush, Active: rs, Previous: prev, Depth: len(s.saved)}
	observers := s.observers
	s.mu.Unlock()

	notify(observers, ev)
	return nil
}

// Pop restores the most recently saved runspace.
func (s *Stack) Pop() error {
	s.mu.Lock()
	n := len(s.saved)
	if n == 0 {
		s.mu.Unlock()
		return ErrNotPushed
	}
	prev := s.active
	s.active = s.saved[n-1]
	s.saved[n-1] = nil
	s.saved = s.saved[:n-1]
	ev := Event{Transition: TransitionPop, Active: s.active, Previous: prev, Depth: len(s.saved)}
	observers := s.observers
	s.mu.Unlock()

	notify(observers, ev)
	return nil
}

// isNil also reports true for an interface holding a typed nil.
func isNil(rs host.Runspace) bool {
	if rs == nil {
		return true
	}
	v := reflect.ValueOf(rs)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func notify(observers []Observer, ev Event) {
	for _, o := range observers {
		o(ev)
	}
}

// Info is a plain runspace value.
type Info struct {
	id   uuid.UUID
	name string
}

// NewRunspace creates an Info with a fresh identifier.
func NewRunspace(name string) Info {
	return Info{id: uuid.New(), name: name}
}

// ID returns the runspace identifier.
func (r Info) ID() uuid.UUID { return r.id }

// Name returns the runspace display name.
func (r Info) Name() string { return r.name }

// String returns the display name.
func (r Info) String() string { return r.name }
