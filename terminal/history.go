package terminal

import "sync"

// History is an append-only command log with a navigation cursor.
// Entries are kept verbatim, in order, including duplicates.
type History struct {
	mu      sync.Mutex
	entries []string
	cursor  int // len(entries) means "past the newest entry"
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{}
}

// Add appends command and moves the cursor past it.
func (h *History) Add(command string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, command)
	h.cursor = len(h.entries)
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Previous moves the cursor one entry back and returns it.
// It reports false when the cursor is already at the oldest entry.
func (h *History) Previous() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves the cursor one entry forward and returns it.
// Moving past the newest entry returns "" and false.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= len(h.entries)-1 {
		h.cursor = len(h.entries)
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}
