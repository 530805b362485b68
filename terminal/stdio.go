package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Stdio is a line-mode Widget over a reader and a writer, typically the
// process's standard streams. Echo control applies only when the reader is
// a terminal.
type Stdio struct {
	in  io.Reader
	out io.Writer
	fd  int // -1 when in is not a file

	mu    sync.Mutex // serializes writes
	once  sync.Once
	lines chan string
	err   error
}

var _ Widget = (*Stdio)(nil)

// NewStdio creates a widget reading lines from in and writing to out.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Stdio{in: in, out: out, fd: fd}
}

// Write renders text to the output.
func (s *Stdio) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, text)
}

// Input starts the reader on first use and returns the line channel.
func (s *Stdio) Input() <-chan string {
	s.once.Do(func() {
		s.lines = make(chan string)
		go s.readLoop()
	})
	return s.lines
}

// Err returns the read error that closed the input, if any.
// It is valid once the Input channel is closed.
func (s *Stdio) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stdio) readLoop() {
	defer close(s.lines)

	r := bufio.NewReader(s.in)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			s.lines <- strings.TrimRight(line, "\r\n")
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// IsTerminal reports whether the input is an interactive terminal.
func (s *Stdio) IsTerminal() bool {
	return s.fd >= 0 && term.IsTerminal(s.fd)
}

// SetEcho toggles terminal echo. It does nothing for non-terminal input.
func (s *Stdio) SetEcho(enabled bool) error {
	if !s.IsTerminal() {
		return nil
	}
	return setEcho(s.fd, enabled)
}
