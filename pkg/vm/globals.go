package vm

import (
	"fmt"
	"sort"
	"sync"

	"pyvm/pkg/value"
)

// Globals is the name-to-value environment shared by every frame of a VM.
// It is safe to share between VMs running on different goroutines.
type Globals struct {
	mu sync.RWMutex
	m  map[string]value.Value
}

// NewGlobals creates an environment pre-seeded with a copy of seed.
func NewGlobals(seed map[string]value.Value) *Globals {
	g := &Globals{m: make(map[string]value.Value, len(seed))}
	for name, v := range seed {
		g.m[name] = v
	}
	return g
}

// Get reads a global.
func (g *Globals) Get(name string) (value.Value, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.m[name]
	return v, ok
}

// Declare creates or overwrites a global.
func (g *Globals) Declare(name string, v value.Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[name] = v
}

// Assign overwrites an existing global; the name must already be declared.
func (g *Globals) Assign(name string, v value.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.m[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUndeclaredGlobal, name)
	}
	g.m[name] = v
	return nil
}

// Names returns the declared names in sorted order.
func (g *Globals) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.m))
	for name := range g.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
