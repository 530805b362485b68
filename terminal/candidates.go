package terminal

import (
	"slices"
	"strings"
	"sync"
)

// Candidates is the set of intellisense completion strings.
// Duplicates collapse; matching is a case-insensitive prefix match.
type Candidates struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewCandidates creates an empty candidate set.
func NewCandidates() *Candidates {
	return &Candidates{set: make(map[string]struct{})}
}

// Add merges candidates into the set. Empty strings are ignored.
func (c *Candidates) Add(candidates ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range candidates {
		if s != "" {
			c.set[s] = struct{}{}
		}
	}
}

// Replace discards the current set and adds candidates.
func (c *Candidates) Replace(candidates ...string) {
	c.mu.Lock()
	c.set = make(map[string]struct{}, len(candidates))
	c.mu.Unlock()
	c.Add(candidates...)
}

// Len returns the number of distinct candidates.
func (c *Candidates) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.set)
}

// Complete returns the candidates starting with prefix, sorted.
// An empty prefix returns every candidate.
func (c *Candidates) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)

	c.mu.RLock()
	out := make([]string, 0, len(c.set))
	for s := range c.set {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			out = append(out, s)
		}
	}
	c.mu.RUnlock()

	slices.Sort(out)
	return out
}
