package lib

import (
	"sync"
)

// Set is thread-safe and can be passed by value.
type Set struct {
	data map[string]struct{}
	mu   *sync.RWMutex
}

func NewSet(elems ...string) Set {
	s := Set{
		data: make(map[string]struct{}, len(elems)),
		mu:   &sync.RWMutex{},
	}
	for _, elem := range elems {
		s.data[elem] = struct{}{}
	}
	return s
}

func (s Set) Add(elem string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[elem] = struct{}{}
}

// AddIfAbsent adds elem and reports whether it was not already present.
func (s Set) AddIfAbsent(elem string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[elem]; exists {
		return false
	}
	s.data[elem] = struct{}{}
	return true
}

func (s Set) Contains(elem string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.data[elem]
	return exists
}
