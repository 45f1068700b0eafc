// Package content holds the static text the dashboard samples from: the
// fact and tip pools, the recommended and discouraged activity pools, and
// the target dates. A Pack is built once at startup and never mutated.
package content

import "slices"

// Pool is an ordered, read-only list of strings.
type Pool struct {
	name  string
	items []string
}

// NewPool copies items into a new Pool.
func NewPool(name string, items []string) Pool {
	return Pool{name: name, items: slices.Clone(items)}
}

// Name returns the pool's name, used in logs and error messages.
func (p Pool) Name() string { return p.name }

// Len returns the number of entries.
func (p Pool) Len() int { return len(p.items) }

// At returns the i-th entry.
func (p Pool) At(i int) string { return p.items[i] }

// Items returns a copy of the entries.
func (p Pool) Items() []string { return slices.Clone(p.items) }

// Contains reports whether s is an entry of the pool.
func (p Pool) Contains(s string) bool { return slices.Contains(p.items, s) }
