package cmd

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Entry is one alias and the descriptor it resolves to.
type Entry struct {
	Alias      string
	Descriptor *Descriptor
}

// Registry maps aliases to descriptors. It does not perform dispatch; the
// Dispatcher and schema exporters read from it. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Descriptor)}
}

func normalizeAlias(alias string) (string, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return "", ErrEmptyAlias
	}
	if strings.IndexFunc(alias, unicode.IsSpace) >= 0 {
		return "", ErrInvalidAlias
	}
	return alias, nil
}

// Register binds alias to d, replacing any previous binding.
func (r *Registry) Register(alias string, d *Descriptor) error {
	if d == nil {
		return ErrNilCommand
	}
	alias, err := normalizeAlias(alias)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.commands[alias] = d
	r.mu.Unlock()
	return nil
}

// RegisterCommand builds one descriptor for c and binds every alias to it.
// Nothing is registered if any alias or template is invalid.
func (r *Registry) RegisterCommand(c Command, aliases ...string) error {
	if len(aliases) == 0 {
		return ErrEmptyAlias
	}
	names := make([]string, 0, len(aliases))
	for _, a := range aliases {
		name, err := normalizeAlias(a)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	d, err := NewDescriptor(c)
	if err != nil {
		return err
	}
	r.mu.Lock()
	for _, name := range names {
		r.commands[name] = d
	}
	r.mu.Unlock()
	return nil
}

// Unregister removes alias. It reports whether the alias was bound.
func (r *Registry) Unregister(alias string) bool {
	alias = strings.ToLower(strings.TrimSpace(alias))
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.commands[alias]
	delete(r.commands, alias)
	return ok
}

// Lookup returns the descriptor bound to alias. Matching ignores case.
func (r *Registry) Lookup(alias string) (*Descriptor, bool) {
	alias = strings.ToLower(alias)
	r.mu.RLock()
	d, ok := r.commands[alias]
	r.mu.RUnlock()
	return d, ok
}

// Snapshot returns all bindings, sorted by alias.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	list := make([]Entry, 0, len(r.commands))
	for alias, d := range r.commands {
		list = append(list, Entry{Alias: alias, Descriptor: d})
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].Alias < list[j].Alias
	})
	return list
}

// Aliases returns every alias bound to d, sorted.
func (r *Registry) Aliases(d *Descriptor) []string {
	var out []string
	for _, e := range r.Snapshot() {
		if e.Descriptor == d {
			out = append(out, e.Alias)
		}
	}
	return out
}

// Len returns the number of bound aliases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
