// Package txscope holds per-transaction boolean flags. A Scope lives exactly as
// long as one business transaction; callers create a fresh one per transaction
// and drop it afterwards.
package txscope

import "sync"

type Scope struct {
	mu    sync.Mutex
	flags map[string]bool
}

func New() *Scope {
	return &Scope{flags: make(map[string]bool)}
}

// Get returns the flag value and whether it was ever set in this scope.
func (s *Scope) Get(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.flags[key]
	return v, ok
}

func (s *Scope) Set(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
}
