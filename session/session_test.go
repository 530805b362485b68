package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStack(t *testing.T, opts ...Option) (*Stack, Info) {
	t.Helper()
	local := NewRunspace("localhost")
	s, err := NewStack(local, opts...)
	require.NoError(t, err)
	return s, local
}

func TestNewStack(t *testing.T) {
	t.Parallel()

	s, local := newTestStack(t)
	assert.Equal(t, local, s.Active())
	assert.False(t, s.IsPushed())
	assert.Nil(t, s.Pushed())
	assert.Zero(t, s.Depth())

	_, err := NewStack(nil)
	assert.ErrorIs(t, err, ErrNilRunspace)
}

func TestStack_PushPopRoundTrip(t *testing.T) {
	t.Parallel()

	s, a := newTestStack(t)
	b := NewRunspace("server01")

	require.NoError(t, s.Push(b))
	assert.Equal(t, b, s.Active())
	assert.Equal(t, a, s.Pushed())
	assert.True(t, s.IsPushed())

	require.NoError(t, s.Pop())
	assert.Equal(t, a, s.Active())
	assert.Nil(t, s.Pushed())
	assert.False(t, s.IsPushed())
}

func TestStack_NestedPush(t *testing.T) {
	t.Parallel()

	s, a := newTestStack(t)
	b := NewRunspace("server01")
	c := NewRunspace("server02")

	require.NoError(t, s.Push(b))
	require.NoError(t, s.Push(c))
	assert.Equal(t, c, s.Active())
	assert.Equal(t, b, s.Pushed())
	assert.Equal(t, 2, s.Depth())

	// One pop restores B, not A.
	require.NoError(t, s.Pop())
	assert.Equal(t, b, s.Active())
	assert.True(t, s.IsPushed())

	require.NoError(t, s.Pop())
	assert.Equal(t, a, s.Active())
	assert.False(t, s.IsPushed())
}

func TestStack_PopWhenLocal(t *testing.T) {
	t.Parallel()

	s, a := newTestStack(t)

	assert.ErrorIs(t, s.Pop(), ErrNotPushed)
	assert.Equal(t, a, s.Active())
	assert.False(t, s.IsPushed())
}

func TestStack_PushNil(t *testing.T) {
	t.Parallel()

	s, a := newTestStack(t)

	assert.ErrorIs(t, s.Push(nil), ErrNilRunspace)
	assert.Equal(t, a, s.Active())
	assert.False(t, s.IsPushed())
}

// ptrRunspace implements host.Runspace on a pointer receiver.
type ptrRunspace struct{ name string }

func (r *ptrRunspace) ID() uuid.UUID { return uuid.Nil }

func (r *ptrRunspace) Name() string { return r.name }

func TestStack_PushTypedNil(t *testing.T) {
	t.Parallel()

	var observed int
	s, a := newTestStack(t, WithObserver(func(Event) { observed++ }))

	var rs *ptrRunspace
	assert.ErrorIs(t, s.Push(rs), ErrNilRunspace)
	assert.Equal(t, a, s.Active())
	assert.False(t, s.IsPushed())
	assert.Zero(t, observed)

	_, err := NewStack(rs)
	assert.ErrorIs(t, err, ErrNilRunspace)

	require.NoError(t, s.Push(&ptrRunspace{name: "server01"}))
	assert.True(t, s.IsPushed())
}

func TestStack_Observers(t *testing.T) {
	t.Parallel()

	var events []Event
	var order []string
	s, a := newTestStack(t,
		WithObserver(func(ev Event) { events = append(events, ev); order = append(order, "first") }),
		WithObserver(nil),
		WithObserver(func(Event) { order = append(order, "second") }),
	)
	b := NewRunspace("server01")

	require.NoError(t, s.Push(b))
	require.NoError(t, s.Pop())
	require.ErrorIs(t, s.Pop(), ErrNotPushed)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Transition: TransitionPush, Active: b, Previous: a, Depth: 1}, events[0])
	assert.Equal(t, Event{Transition: TransitionPop, Active: a, Previous: b, Depth: 0}, events[1])
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestStack_ObserverMayQueryStack(t *testing.T) {
	t.Parallel()

	var s *Stack
	var seen bool
	s, _ = newTestStack(t, WithObserver(func(ev Event) {
		// Observers run outside the lock.
		seen = s.IsPushed() == (ev.Depth > 0)
	}))

	require.NoError(t, s.Push(NewRunspace("server01")))
	assert.True(t, seen)
}

func TestStack_ConcurrentPushPop(t *testing.T) {
	t.Parallel()

	s, a := newTestStack(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Push(NewRunspace("remote")))
			_ = s.Active()
			assert.NoError(t, s.Pop())
		}()
	}
	wg.Wait()

	assert.Equal(t, a, s.Active())
	assert.Zero(t, s.Depth())
}

func TestTransitionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Push", TransitionPush.String())
	assert.Equal(t, "Pop", TransitionPop.String())
}

func TestInfo(t *testing.T) {
	t.Parallel()

	a := NewRunspace("server01")
	b := NewRunspace("server01")
	assert.Equal(t, "server01", a.Name())
	assert.Equal(t, "server01", a.String())
	assert.NotEqual(t, a.ID(), b.ID())
}
