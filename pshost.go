package pshost

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/smnsjas/go-pshost/host"
	"github.com/smnsjas/go-pshost/session"
	"github.com/smnsjas/go-pshost/terminal"
)

var (
	// ErrNilExitSink is returned by New when no exit sink is given.
	ErrNilExitSink = errors.New("exit sink is nil")
	// ErrNilUI is returned by New when no UI is given.
	ErrNilUI = errors.New("ui is nil")
)

const (
	// DefaultName is the host name reported to the engine.
	DefaultName = "go-pshost"
)

// DefaultVersion is the host version reported to the engine.
var DefaultVersion = host.Version{Major: 1}

// Option configures a Host.
type Option func(*Host)

// WithName overrides the host name.
func WithName(name string) Option {
	return func(h *Host) {
		if name != "" {
			h.name = name
		}
	}
}

// WithVersion overrides the host version.
func WithVersion(v host.Version) Option {
	return func(h *Host) { h.version = v }
}

// WithCulture fixes the culture instead of reading it from the environment.
func WithCulture(c host.Culture) Option {
	return func(h *Host) {
		if !c.IsZero() {
			h.culture = c
		}
	}
}

// WithUICulture fixes the UI culture instead of reading it from the environment.
func WithUICulture(c host.Culture) Option {
	return func(h *Host) {
		if !c.IsZero() {
			h.uiCulture = c
		}
	}
}

// WithInstanceID replaces the process-wide instance identifier.
func WithInstanceID(id uuid.UUID) Option {
	return func(h *Host) { h.id = id }
}

// WithLogger sets the structured logger. Push, pop and exit requests are
// logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSessionObserver registers an observer for runspace push and pop.
func WithSessionObserver(o session.Observer) Option {
	return func(h *Host) {
		if o != nil {
			h.observers = append(h.observers, o)
		}
	}
}

// Host is the engine's view of its embedding application.
type Host struct {
	id        uuid.UUID
	name      string
	version   host.Version
	culture   host.Culture
	uiCulture host.Culture

	ui        *terminal.UI
	exit      ExitSink
	sessions  *session.Stack
	observers []session.Observer
	logger    *slog.Logger
}

var (
	_ host.Host               = (*Host)(nil)
	_ host.InteractiveSession = (*Host)(nil)
)

// New creates a Host writing exit requests to exit, rendering through ui, and
// executing in local until a runspace is pushed.
//
// The culture and UI culture are read from the environment once, here.
func New(exit ExitSink, ui *terminal.UI, local host.Runspace, opts ...Option) (*Host, error) {
	if exit == nil {
		return nil, ErrNilExitSink
	}
	if ui == nil {
		return nil, ErrNilUI
	}

	h := &Host{
		id:        host.ProcessInstanceID(),
		name:      DefaultName,
		version:   DefaultVersion,
		culture:   host.CurrentCulture(),
		uiCulture: host.CurrentUICulture(),
		ui:        ui,
		exit:      exit,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	stackOpts := []session.Option{session.WithObserver(h.logTransition)}
	for _, o := range h.observers {
		stackOpts = append(stackOpts, session.WithObserver(o))
	}
	sessions, err := session.NewStack(local, stackOpts...)
	if err != nil {
		return nil, fmt.Errorf("local runspace: %w", err)
	}
	h.sessions = sessions
	h.logger = h.logger.With(slog.String("instance_id", h.id.String()))

	return h, nil
}

// GetName returns the host name.
func (h *Host) GetName() string { return h.name }

// GetVersion returns the host version.
func (h *Host) GetVersion() host.Version { return h.version }

// GetInstanceID returns the host instance identifier.
func (h *Host) GetInstanceID() uuid.UUID { return h.id }

// GetCurrentCulture returns the culture captured at construction.
func (h *Host) GetCurrentCulture() string { return h.culture.String() }

// GetCurrentUICulture returns the UI culture captured at construction.
func (h *Host) GetCurrentUICulture() string { return h.uiCulture.String() }

// UI returns the user interface.
func (h *Host) UI() host.HostUI { return h.ui }

// Terminal returns the concrete UI for application-side calls.
func (h *Host) Terminal() *terminal.UI { return h.ui }

// SetShouldExit forwards an exit request to the exit sink.
func (h *Host) SetShouldExit(exitCode int) {
	h.logger.Debug("exit requested", slog.Int("exit_code", exitCode))
	h.exit.RequestExit(exitCode)
}

// EnterNestedPrompt is not supported.
func (h *Host) EnterNestedPrompt() error {
	return host.Unsupported("EnterNestedPrompt")
}

// ExitNestedPrompt ends the pending read, if any.
func (h *Host) ExitNestedPrompt() { h.ui.EndInput() }

// Exit ends the pending read, if any, so the input loop can observe an exit
// request or a shutdown.
func (h *Host) Exit() { h.ui.EndInput() }

// NotifyBeginApplication does nothing.
func (h *Host) NotifyBeginApplication() {}

// NotifyEndApplication does nothing.
func (h *Host) NotifyEndApplication() {}

// IsRunspacePushed reports whether a pushed runspace is active.
func (h *Host) IsRunspacePushed() bool { return h.sessions.IsPushed() }

// Runspace returns the active runspace.
func (h *Host) Runspace() host.Runspace { return h.sessions.Active() }

// Pushed returns the runspace the next PopRunspace restores, or nil.
func (h *Host) Pushed() host.Runspace { return h.sessions.Pushed() }

// PushRunspace makes rs the active runspace.
func (h *Host) PushRunspace(rs host.Runspace) error {
	if err := h.sessions.Push(rs); err != nil {
		return fmt.Errorf("push runspace: %w", err)
	}
	return nil
}

// PopRunspace restores the runspace that was active before the last push.
func (h *Host) PopRunspace() error {
	if err := h.sessions.Pop(); err != nil {
		return fmt.Errorf("pop runspace: %w", err)
	}
	return nil
}

// AddToCommandHistory appends command to the UI history.
func (h *Host) AddToCommandHistory(command string) { h.ui.AddToCommandHistory(command) }

// AddIntellisenseCommands adds completion candidates to the UI.
func (h *Host) AddIntellisenseCommands(commands ...string) {
	h.ui.AddIntellisenseCommands(commands...)
}

// AtCommandPrompt reports the UI's at-prompt flag.
func (h *Host) AtCommandPrompt() bool { return h.ui.AtCommandPrompt() }

// SetAtCommandPrompt sets the UI's at-prompt flag.
func (h *Host) SetAtCommandPrompt(v bool) { h.ui.SetAtCommandPrompt(v) }

func (h *Host) logTransition(ev session.Event) {
	h.logger.Debug("runspace "+ev.Transition.String(),
		slog.String("runspace_id", ev.Active.ID().String()),
		slog.String("runspace", ev.Active.Name()),
		slog.Int("depth", ev.Depth),
	)
}
