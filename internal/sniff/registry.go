package sniff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownSniff is returned by Select for names that are not registered.
var ErrUnknownSniff = errors.New("unknown sniff")

// Registry maps sniff names to implementations.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Sniff
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Sniff)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry the built-in sniffs add themselves to.
func Default() *Registry {
	return defaultRegistry
}

// Register adds s. Registering a second sniff under the same name is an error.
func (r *Registry) Register(s Sniff) error {
	if s == nil {
		return errors.New("sniff: nil sniff")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := s.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("sniff %q already registered", name)
	}
	r.byName[name] = s
	return nil
}

// MustRegister is Register for init-time use.
func (r *Registry) MustRegister(s Sniff) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Lookup returns the sniff registered under name.
func (r *Registry) Lookup(name string) (Sniff, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// All returns every registered sniff ordered by name.
func (r *Registry) All() []Sniff {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sniff, 0, len(r.byName))
	for _, s := range r.byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Select returns the sniffs named in names, in registry order. An empty
// list selects everything. Names may be given in full or by their last
// dotted component (FunctionDeclarationArgumentSpacing).
func (r *Registry) Select(names []string) ([]Sniff, error) {
	all := r.All()
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		found := false
		for _, s := range all {
			if s.Name() == n || shortName(s.Name()) == n {
				want[s.Name()] = true
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSniff, n)
		}
	}
	out := make([]Sniff, 0, len(want))
	for _, s := range all {
		if want[s.Name()] {
			out = append(out, s)
		}
	}
	return out, nil
}

func shortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
