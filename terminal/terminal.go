// Package terminal implements the host UI surface on top of a terminal widget.
//
// The widget renders text and delivers submitted lines; it knows nothing
// about PowerShell. UI adds what the engine and the host need on top of it:
//
//   - Blocking line input that EndInput can cancel from another goroutine
//   - Output framing for the error, warning, verbose, debug and progress streams
//   - Echo-free reads for SecureString and credential prompts
//   - Command history and intellisense candidates
//   - The at-prompt flag the application uses to tell prompt input from
//     Read-Host input
//
// # Usage
//
//	ui := terminal.New(terminal.NewStdio(os.Stdin, os.Stdout))
//	go func() {
//		<-ctx.Done()
//		ui.EndInput()
//	}()
//	line, err := ui.ReadLine()
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/smnsjas/go-pshost/host"
	"github.com/smnsjas/go-pshost/objects"
)

var (
	// ErrInputEnded is returned by a read that EndInput cancelled.
	ErrInputEnded = errors.New("input ended")
	// ErrReadPending is returned when a read starts while another is waiting.
	ErrReadPending = errors.New("a read is already pending")
)

// Widget is the terminal rendering surface.
type Widget interface {
	// Write renders text as-is.
	Write(text string)

	// Input delivers submitted lines without their line terminator.
	// The channel is closed when no more input will arrive.
	Input() <-chan string

	// SetEcho turns echo of typed characters on or off.
	SetEcho(enabled bool) error
}

// UI is the host user interface over a Widget. It is safe for concurrent use.
type UI struct {
	widget     Widget
	history    *History
	candidates *Candidates
	atPrompt   atomic.Bool

	mu      sync.Mutex
	pending chan struct{} // closed by EndInput; nil when no read waits
}

var _ host.HostUI = (*UI)(nil)

// New creates a UI rendering to w.
func New(w Widget) *UI {
	return &UI{
		widget:     w,
		history:    NewHistory(),
		candidates: NewCandidates(),
	}
}

// ReadLine blocks until a line is submitted, the widget input closes
// (io.EOF), or EndInput is called (ErrInputEnded).
func (u *UI) ReadLine() (string, error) {
	return u.ReadLineContext(context.Background())
}

// ReadLineContext is ReadLine that also returns ctx.Err() once ctx is done.
func (u *UI) ReadLineContext(ctx context.Context) (string, error) {
	cancel, err := u.beginRead()
	if err != nil {
		return "", err
	}
	defer u.endRead(cancel)
	return u.waitLine(ctx, cancel)
}

// ReadLineAsSecureString reads a line with echo disabled.
func (u *UI) ReadLineAsSecureString() (*objects.SecureString, error) {
	line, err := u.readHidden()
	if err != nil {
		return nil, err
	}
	return objects.NewSecureString(line)
}

// readHidden holds the read slot across both echo changes.
func (u *UI) readHidden() (string, error) {
	cancel, err := u.beginRead()
	if err != nil {
		return "", err
	}
	defer u.endRead(cancel)

	if err := u.widget.SetEcho(false); err != nil {
		return "", fmt.Errorf("disable echo: %w", err)
	}
	line, err := u.waitLine(context.Background(), cancel)
	// The terminator was not echoed either.
	u.widget.Write("\n")
	if echoErr := u.widget.SetEcho(true); echoErr != nil && err == nil {
		err = fmt.Errorf("restore echo: %w", echoErr)
	}
	return line, err
}

// beginRead claims the single read slot. EndInput closes the returned channel.
func (u *UI) beginRead() (chan struct{}, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending != nil {
		return nil, ErrReadPending
	}
	cancel := make(chan struct{})
	u.pending = cancel
	return cancel, nil
}

func (u *UI) endRead(cancel chan struct{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending == cancel {
		u.pending = nil
	}
}

func (u *UI) waitLine(ctx context.Context, cancel <-chan struct{}) (string, error) {
	select {
	case line, ok := <-u.widget.Input():
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-cancel:
		return "", ErrInputEnded
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EndInput cancels the pending read, if any. Without a pending read it does
// nothing, and later reads are unaffected.
func (u *UI) EndInput() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending != nil {
		close(u.pending)
		u.pending = nil
	}
}

// Reading reports whether a read is waiting for input.
func (u *UI) Reading() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending != nil
}

// AtCommandPrompt reports whether input is being read at the command prompt.
func (u *UI) AtCommandPrompt() bool { return u.atPrompt.Load() }

// SetAtCommandPrompt records whether input is being read at the command prompt.
func (u *UI) SetAtCommandPrompt(v bool) { u.atPrompt.Store(v) }

// AddToCommandHistory appends command to the history verbatim.
func (u *UI) AddToCommandHistory(command string) { u.history.Add(command) }

// AddIntellisenseCommands adds completion candidates.
func (u *UI) AddIntellisenseCommands(commands ...string) { u.candidates.Add(commands...) }

// History returns the command history.
func (u *UI) History() *History { return u.history }

// Candidates returns the intellisense candidate set.
func (u *UI) Candidates() *Candidates { return u.candidates }

// Complete returns the candidates matching prefix.
func (u *UI) Complete(prefix string) []string { return u.candidates.Complete(prefix) }

// Write outputs text without a newline.
func (u *UI) Write(text string) { u.widget.Write(text) }

// WriteLine outputs text with a newline.
func (u *UI) WriteLine(text string) { u.widget.Write(text + "\n") }

// WriteErrorLine outputs error text.
func (u *UI) WriteErrorLine(text string) { u.writePrefixed("ERROR: ", text) }

// WriteDebugLine outputs debug text.
func (u *UI) WriteDebugLine(text string) { u.writePrefixed("DEBUG: ", text) }

// WriteVerboseLine outputs verbose text.
func (u *UI) WriteVerboseLine(text string) { u.writePrefixed("VERBOSE: ", text) }

// WriteWarningLine outputs warning text.
func (u *UI) WriteWarningLine(text string) { u.writePrefixed("WARNING: ", text) }

// writePrefixed prefixes every line of a multi-line message.
func (u *UI) writePrefixed(prefix, text string) {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	u.widget.Write(b.String())
}

// WriteProgress renders a progress record as a single status line.
func (u *UI) WriteProgress(_ int64, record *objects.ProgressRecord) {
	if record == nil {
		return
	}
	u.widget.Write(formatProgress(record) + "\n")
}

func formatProgress(r *objects.ProgressRecord) string {
	var b strings.Builder
	b.WriteString(r.Activity)
	if r.RecordType == objects.ProgressRecordTypeCompleted {
		b.WriteString(": Completed")
		return b.String()
	}
	if r.StatusDescription != "" {
		b.WriteString(": ")
		b.WriteString(r.StatusDescription)
	}
	if r.PercentComplete >= 0 {
		fmt.Fprintf(&b, " [%d%%]", min(r.PercentComplete, 100))
	}
	if r.CurrentOperation != "" {
		b.WriteString(" ")
		b.WriteString(r.CurrentOperation)
	}
	if r.SecondsRemaining >= 0 {
		fmt.Fprintf(&b, " (%ds remaining)", r.SecondsRemaining)
	}
	return b.String()
}
