package pshost

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smnsjas/go-pshost/host"
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

func newFakeWidget() *fakeWidget {
	return &fakeWidget{input: make(chan string, 8)}
}

func (w *fakeWidget) Write(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.WriteString(text)
}

func (w *fakeWidget) Input() <-chan string { return w.input }

func (w *fakeWidget) SetEcho(bool) error { return nil }

func (w *fakeWidget) output() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.String()
}

func newTestHost(t *testing.T, opts ...Option) (*Host, *ExitRequest, session.Info) {
	t.Helper()
	exit := &ExitRequest{}
	local := session.NewRunspace("localhost")
	h, err := New(exit, terminal.New(newFakeWidget()), local, opts...)
	require.NoError(t, err)
	return h, exit, local
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ui := terminal.New(newFakeWidget())
	local := session.NewRunspace("localhost")

	_, err := New(nil, ui, local)
	assert.ErrorIs(t, err, ErrNilExitSink)

	_, err = New(&ExitRequest{}, nil, local)
	assert.ErrorIs(t, err, ErrNilUI)

	_, err = New(&ExitRequest{}, ui, nil)
	assert.ErrorIs(t, err, session.ErrNilRunspace)
}

func TestHost_Identity(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestHost(t)
	b, _, _ := newTestHost(t)

	assert.Equal(t, DefaultName, a.GetName())
	assert.Equal(t, "1.0.0.0", a.GetVersion().String())
	assert.NotEqual(t, uuid.Nil, a.GetInstanceID())
	assert.Equal(t, a.GetInstanceID(), a.GetInstanceID())
	assert.Equal(t, a.GetInstanceID(), b.GetInstanceID(), "instance id is process wide")
	assert.Equal(t, host.ProcessInstanceID(), a.GetInstanceID())
}

func TestHost_Options(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	fr, err := host.ParseCulture("fr-FR")
	require.NoError(t, err)
	ja, err := host.ParseCulture("ja-JP")
	require.NoError(t, err)

	h, _, _ := newTestHost(t,
		WithName("ConnectionManager"),
		WithVersion(host.Version{Major: 2, Minor: 5}),
		WithInstanceID(id),
		WithCulture(fr),
		WithUICulture(ja),
		WithName(""),
	)

	assert.Equal(t, "ConnectionManager", h.GetName())
	assert.Equal(t, "2.5.0.0", h.GetVersion().String())
	assert.Equal(t, id, h.GetInstanceID())
	assert.Equal(t, "fr-FR", h.GetCurrentCulture())
	assert.Equal(t, "ja-JP", h.GetCurrentUICulture())
}

func TestHost_CultureSnapshot(t *testing.T) {
	for _, k := range []string{"LC_ALL", "LC_NUMERIC", "LC_TIME", "LC_MESSAGES"} {
		t.Setenv(k, "")
	}
	t.Setenv("LANG", "de_DE.UTF-8")

	h, _, _ := newTestHost(t)
	assert.Equal(t, "de-DE", h.GetCurrentCulture())
	assert.Equal(t, "de-DE", h.GetCurrentUICulture())

	t.Setenv("LANG", "fr_FR.UTF-8")
	t.Setenv("LC_ALL", "es_ES")
	assert.Equal(t, "de-DE", h.GetCurrentCulture())
	assert.Equal(t, "de-DE", h.GetCurrentUICulture())
}

func TestHost_UI(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHost(t)
	assert.Same(t, h.Terminal(), h.UI())
	assert.Same(t, h.UI(), h.UI())
}

func TestHost_SetShouldExitLastWins(t *testing.T) {
	t.Parallel()

	h, exit, _ := newTestHost(t)
	assert.False(t, exit.ShouldExit())

	h.SetShouldExit(3)
	h.SetShouldExit(5)

	assert.True(t, exit.ShouldExit())
	assert.Equal(t, 5, exit.ExitCode())
}

func TestHost_EnterNestedPromptUnsupported(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHost(t)
	for range 2 {
		err := h.EnterNestedPrompt()
		require.Error(t, err)
		assert.ErrorIs(t, err, host.ErrNotImplemented)

		var ue *host.UnsupportedError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "EnterNestedPrompt", ue.Method)
	}
}

func TestHost_ExitUnblocksRead(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		stop func(*Host)
	}{
		{"Exit", (*Host).Exit},
		{"ExitNestedPrompt", (*Host).ExitNestedPrompt},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, _, _ := newTestHost(t)

			errCh := make(chan error, 1)
			go func() {
				_, err := h.UI().ReadLine()
				errCh <- err
			}()
			require.Eventually(t, h.Terminal().Reading, time.Second, time.Millisecond)

			tc.stop(h)
			select {
			case err := <-errCh:
				assert.ErrorIs(t, err, terminal.ErrInputEnded)
			case <-time.After(time.Second):
				t.Fatal("read not unblocked")
			}
		})
	}
}

func TestHost_ExitWithoutPendingRead(t *testing.T) {
	t.Parallel()

	w := newFakeWidget()
	h, err := New(&ExitRequest{}, terminal.New(w), session.NewRunspace("localhost"))
	require.NoError(t, err)

	h.Exit()
	h.ExitNestedPrompt()

	w.input <- "Get-Date"
	line, err := h.UI().ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "Get-Date", line)
}

func TestHost_NotifyApplication(t *testing.T) {
	t.Parallel()

	h, exit, local := newTestHost(t)
	h.NotifyBeginApplication()
	h.NotifyEndApplication()

	assert.False(t, exit.ShouldExit())
	assert.Equal(t, local, h.Runspace())
}

func TestHost_PushPopRoundTrip(t *testing.T) {
	t.Parallel()

	h, _, local := newTestHost(t)
	remote := session.NewRunspace("srv01")

	assert.False(t, h.IsRunspacePushed())
	assert.Equal(t, local, h.Runspace())
	assert.Nil(t, h.Pushed())

	require.NoError(t, h.PushRunspace(remote))
	assert.True(t, h.IsRunspacePushed())
	assert.Equal(t, remote, h.Runspace())
	assert.Equal(t, local, h.Pushed())

	require.NoError(t, h.PopRunspace())
	assert.False(t, h.IsRunspacePushed())
	assert.Equal(t, local, h.Runspace())
	assert.Nil(t, h.Pushed())
}

func TestHost_StackedPush(t *testing.T) {
	t.Parallel()

	h, _, local := newTestHost(t)
	b := session.NewRunspace("b")
	c := session.NewRunspace("c")

	require.NoError(t, h.PushRunspace(b))
	require.NoError(t, h.PushRunspace(c))
	assert.Equal(t, c, h.Runspace())
	assert.Equal(t, b, h.Pushed())

	require.NoError(t, h.PopRunspace())
	assert.Equal(t, b, h.Runspace())
	assert.True(t, h.IsRunspacePushed())

	require.NoError(t, h.PopRunspace())
	assert.Equal(t, local, h.Runspace())
	assert.False(t, h.IsRunspacePushed())
}

func TestHost_PopWhenLocal(t *testing.T) {
	t.Parallel()

	h, _, local := newTestHost(t)
	err := h.PopRunspace()
	assert.ErrorIs(t, err, session.ErrNotPushed)
	assert.Equal(t, local, h.Runspace())

	assert.ErrorIs(t, h.PushRunspace(nil), session.ErrNilRunspace)
	assert.False(t, h.IsRunspacePushed())
}

type ptrRunspace struct{}

func (*ptrRunspace) ID() uuid.UUID { return uuid.Nil }

func (*ptrRunspace) Name() string { return "ptr" }

func TestHost_PushTypedNilRunspace(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h, _, local := newTestHost(t, WithLogger(logger))

	var rs *ptrRunspace
	assert.ErrorIs(t, h.PushRunspace(rs), session.ErrNilRunspace)
	assert.Equal(t, local, h.Runspace())
	assert.False(t, h.IsRunspacePushed())

	resp := host.NewCallbackHandler(h).HandleCall(&host.RemoteHostCall{
		MethodID:         host.MethodIDPushRunspace,
		MethodParameters: []interface{}{rs},
	})
	assert.True(t, resp.ExceptionRaised)
	assert.False(t, h.IsRunspacePushed())
}

func TestHost_SessionObserver(t *testing.T) {
	t.Parallel()

	var events []session.Event
	h, _, local := newTestHost(t, WithSessionObserver(func(ev session.Event) {
		events = append(events, ev)
	}))

	remote := session.NewRunspace("srv01")
	require.NoError(t, h.PushRunspace(remote))
	require.NoError(t, h.PopRunspace())

	require.Len(t, events, 2)
	assert.Equal(t, session.TransitionPush, events[0].Transition)
	assert.Equal(t, remote, events[0].Active)
	assert.Equal(t, local, events[0].Previous)
	assert.Equal(t, 1, events[0].Depth)
	assert.Equal(t, session.TransitionPop, events[1].Transition)
	assert.Equal(t, local, events[1].Active)
	assert.Equal(t, 0, events[1].Depth)
}

func TestHost_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h, _, _ := newTestHost(t, WithLogger(logger))
	remote := session.NewRunspace("srv01")
	require.NoError(t, h.PushRunspace(remote))
	h.SetShouldExit(7)

	out := buf.String()
	assert.Contains(t, out, `"msg":"runspace Push"`)
	assert.Contains(t, out, `"runspace_id":"`+remote.ID().String()+`"`)
	assert.Contains(t, out, `"depth":1`)
	assert.Contains(t, out, `"exit_code":7`)
	assert.Contains(t, out, `"instance_id":"`+h.GetInstanceID().String()+`"`)
}

func TestHost_HistoryAndIntellisense(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHost(t)
	h.AddToCommandHistory("a")
	h.AddToCommandHistory("b")
	assert.Equal(t, []string{"a", "b"}, h.Terminal().History().Entries())

	h.AddIntellisenseCommands("Get-Item", "Get-ItemProperty")
	assert.Equal(t, []string{"Get-Item", "Get-ItemProperty"}, h.Terminal().Complete("get-i"))
}

func TestHost_AtCommandPromptProxy(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHost(t)
	for _, v := range []bool{true, false, true} {
		h.SetAtCommandPrompt(v)
		assert.Equal(t, v, h.AtCommandPrompt())
		assert.Equal(t, v, h.Terminal().AtCommandPrompt())
	}
}

func TestHost_CallbackHandler(t *testing.T) {
	t.Parallel()

	exit := &ExitRequest{}
	w := newFakeWidget()
	local := session.NewRunspace("localhost")
	h, err := New(exit, terminal.New(w), local)
	require.NoError(t, err)
	handler := host.NewCallbackHandler(h)

	call := func(id host.MethodID, params ...interface{}) *host.RemoteHostResponse {
		return handler.HandleCall(&host.RemoteHostCall{CallID: 1, MethodID: id, MethodParameters: params})
	}

	resp := call(host.MethodIDGetName)
	assert.False(t, resp.ExceptionRaised)
	assert.Equal(t, DefaultName, resp.ReturnValue)

	resp = call(host.MethodIDEnterNestedPrompt)
	assert.True(t, resp.ExceptionRaised)

	remote := session.NewRunspace("srv01")
	resp = call(host.MethodIDPushRunspace, remote)
	require.False(t, resp.ExceptionRaised, resp.ReturnValue)
	assert.Equal(t, true, call(host.MethodIDGetIsRunspacePushed).ReturnValue)
	assert.Equal(t, remote, call(host.MethodIDGetRunspace).ReturnValue)

	require.False(t, call(host.MethodIDPopRunspace).ExceptionRaised)
	resp = call(host.MethodIDPopRunspace)
	assert.True(t, resp.ExceptionRaised)
	assert.Contains(t, resp.ReturnValue, session.ErrNotPushed.Error())

	call(host.MethodIDWriteWarningLine, "disk low")
	assert.Equal(t, "WARNING: disk low\n", w.output())

	call(host.MethodIDSetShouldExit, int32(4))
	assert.True(t, exit.ShouldExit())
	assert.Equal(t, 4, exit.ExitCode())
}

func TestExitRequest_Concurrent(t *testing.T) {
	t.Parallel()

	var r ExitRequest
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RequestExit(i)
		}()
	}
	wg.Wait()

	assert.True(t, r.ShouldExit())
	assert.GreaterOrEqual(t, r.ExitCode(), 0)
	assert.Less(t, r.ExitCode(), 10)
}
