package core

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/comalice/lsystemx"
)

var ErrNotFound = errors.New("grammar not found")

// Entry is one published version of a named grammar.
type Entry struct {
	Name      string
	Version   int
	Grammar   *lsystemx.Grammar
	Source    string
	UpdatedAt time.Time
	// Fingerprint is the fnv1a hash of the grammar's text form, computed once
	// on Put.
	Fingerprint uint64
}

// Registry holds the latest version of each named grammar. The server reads
// from it while a watcher replaces entries as their files change.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Put publishes g under name and returns the new version, starting at 1.
func (r *Registry) Put(name, source string, g *lsystemx.Grammar) int {
	fp := fnv1a.HashString64(g.String())
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.entries[name].Version + 1
	r.entries[name] = Entry{
		Name:        name,
		Version:     v,
		Grammar:     g,
		Source:      source,
		UpdatedAt:   time.Now(),
		Fingerprint: fp,
	}
	return v
}

// Get returns the latest entry for name.
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Names lists registered grammars in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
