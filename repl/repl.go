// Package repl runs the interactive input loop over a pshost.Host.
//
// Each iteration marks the UI as at the command prompt, writes the prompt,
// reads a line, records it in history and hands it to an Executor against
// the active runspace. The loop ends when the engine requests an exit, when
// input ends, or when its context is cancelled.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/smnsjas/go-pshost"
	"github.com/smnsjas/go-pshost/host"
	"github.com/smnsjas/go-pshost/terminal"
)

// DefaultPrompt is written before each read.
const DefaultPrompt = "PS> "

// completionSuffix marks a line as a completion request.
const completionSuffix = "\t"

// Executor runs a command line in a runspace.
type Executor interface {
	Execute(ctx context.Context, rs host.Runspace, command string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, rs host.Runspace, command string) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, rs host.Runspace, command string) error {
	return f(ctx, rs, command)
}

// ExitState is the read side of the application's exit request.
type ExitState interface {
	ShouldExit() bool
	ExitCode() int
}

// Option configures a Loop.
type Option func(*Loop)

// WithPrompt replaces the prompt text.
func WithPrompt(prompt string) Option {
	return func(l *Loop) {
		if prompt != "" {
			l.prompt = prompt
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loop is the interactive input loop.
type Loop struct {
	host   *pshost.Host
	exit   ExitState
	exec   Executor
	prompt string
	logger *slog.Logger
}

// New creates a loop reading through h, stopping when exit is set, and
// running commands with exec.
func New(h *pshost.Host, exit ExitState, exec Executor, opts ...Option) *Loop {
	l := &Loop{
		host:   h,
		exit:   exit,
		exec:   exec,
		prompt: DefaultPrompt,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run reads and executes commands until the engine requests an exit, input
// ends, or ctx is cancelled. It returns the requested exit code, or 0, and
// ctx.Err() when cancellation stopped it.
func (l *Loop) Run(ctx context.Context) (int, error) {
	ui := l.host.Terminal()
	for !l.exit.ShouldExit() {
		l.host.SetAtCommandPrompt(true)
		ui.Write(l.promptText())
		line, err := ui.ReadLineContext(ctx)
		l.host.SetAtCommandPrompt(false)

		switch {
		case errors.Is(err, terminal.ErrInputEnded):
			// Exit or ExitNestedPrompt. Re-check the exit state.
			continue
		case ctx.Err() != nil:
			if l.exit.ShouldExit() {
				return l.exit.ExitCode(), nil
			}
			return l.exit.ExitCode(), ctx.Err()
		case errors.Is(err, io.EOF):
			l.logger.Debug("input closed")
			return l.exit.ExitCode(), nil
		case err != nil:
			return l.exit.ExitCode(), fmt.Errorf("read line: %w", err)
		}

		if prefix, ok := strings.CutSuffix(line, completionSuffix); ok {
			l.complete(prefix)
			continue
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}
		l.host.AddToCommandHistory(line)

		rs := l.host.Runspace()
		l.logger.Debug("execute", slog.String("runspace_id", rs.ID().String()), slog.String("command", command))
		if err := l.exec.Execute(ctx, rs, command); err != nil {
			ui.WriteErrorLine(err.Error())
		}
	}
	return l.exit.ExitCode(), nil
}

func (l *Loop) promptText() string {
	if l.host.IsRunspacePushed() {
		return fmt.Sprintf("[%s]: %s", l.host.Runspace().Name(), l.prompt)
	}
	return l.prompt
}

func (l *Loop) complete(prefix string) {
	ui := l.host.Terminal()
	word := prefix
	if i := strings.LastIndexAny(prefix, " \t"); i >= 0 {
		word = prefix[i+1:]
	}
	matches := ui.Complete(word)
	if len(matches) == 0 {
		return
	}
	ui.WriteLine(strings.Join(matches, "  "))
}
