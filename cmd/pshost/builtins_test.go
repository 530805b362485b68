package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smnsjas/go-pshost"
	"github.com/smnsjas/go-pshost/session"
	"github.com/smnsjas/go-pshost/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidget struct {
	mu    sync.Mutex
	out   strings.Builder
	input chan string
}

func (w *fakeWidget) Write(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.WriteString(text)
}

func (w *fakeWidget) Input() <-chan string { return w.input }

func (w *fakeWidget) SetEcho(bool) error { return nil }

func newTestBuiltins(t *testing.T) (*builtins, *pshost.Host) {
	t.Helper()
	w := &fakeWidget{input: make(chan string)}
	h, err := pshost.New(&pshost.ExitRequest{}, terminal.New(w), session.NewRunspace("localhost"))
	require.NoError(t, err)
	return newBuiltins(h), h
}

func TestBuiltins_ReadHostCancelled(t *testing.T) {
	t.Parallel()

	b, h := newTestBuiltins(t)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Execute(ctx, h.Runspace(), "Read-Host Name")
	}()

	require.Eventually(t, h.Terminal().Reading, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Read-Host was not unblocked by cancellation")
	}
	assert.False(t, h.Terminal().Reading())
}

func TestBuiltins_EnterSessionRequiresName(t *testing.T) {
	t.Parallel()

	b, h := newTestBuiltins(t)
	assert.ErrorContains(t, b.Execute(context.Background(), h.Runspace(), "Enter-PSSession"), "computer name")
	assert.False(t, h.IsRunspacePushed())

	assert.ErrorContains(t, b.Execute(context.Background(), h.Runspace(), "exit abc"), "not an integer")
}
