package session

import (
	"sort"

	"github.com/strataco/strata/pkg/record"
)

// trimWindow enforces the window capacity. On overflow the window is sorted
// by importance descending then timestamp descending and trimmed, so the
// dropped entries are always the least important, oldest ones. Callers must
// hold s.mu.
func (s *Store) trimWindow() {
	if len(s.window) <= s.windowSize {
		return
	}

	sort.SliceStable(s.window, func(i, j int) bool {
		a, b := s.window[i], s.window[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	s.window = s.window[:s.windowSize]
}

// Window returns a copy of the current context window.
func (s *Store) Window() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record.Record, len(s.window))
	copy(out, s.window)
	return out
}

// WindowSize returns the configured capacity.
func (s *Store) WindowSize() int { return s.windowSize }
