package reveal

import (
	"sort"
	"strconv"
	"sync"
)

// DefaultIDPrefix prefixes identifiers minted by a Registry.
const DefaultIDPrefix = "scroll-reveal-"

// Registry records which identifiers have started their reveal, and mints
// identifiers for trackers that were not given one.
//
// An identifier is removed only by Reset. A Registry is shared by every
// tracker of an application session, across pages and subtrees, and is
// safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	revealed map[string]struct{}
	next     uint64
	prefix   string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return NewRegistryWithPrefix(DefaultIDPrefix)
}

// NewRegistryWithPrefix creates an empty registry that mints identifiers
// as prefix followed by a decimal counter.
func NewRegistryWithPrefix(prefix string) *Registry {
	return &Registry{
		revealed: make(map[string]struct{}),
		prefix:   prefix,
	}
}

// Has reports whether id has been claimed.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revealed[id]
	return ok
}

// Add records id as revealed. Adding an existing id is a no-op.
func (r *Registry) Add(id string) {
	r.mu.Lock()
	r.revealed[id] = struct{}{}
	r.mu.Unlock()
}

// Claim adds id and reports true if it was not already present. Exactly
// one of several callers claiming the same id gets true.
func (r *Registry) Claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revealed[id]; ok {
		return false
	}
	r.revealed[id] = struct{}{}
	return true
}

// MintID returns a fresh identifier: prefix0, prefix1, ...
func (r *Registry) MintID() string {
	r.mu.Lock()
	n := r.next
	r.next++
	r.mu.Unlock()
	return r.prefix + strconv.FormatUint(n, 10)
}

// Len returns the number of claimed identifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revealed)
}

// IDs returns the claimed identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.revealed))
	for id := range r.revealed {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Reset clears every claimed identifier and restarts the minting counter.
// Meant for tests and development reloads only.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.revealed = make(map[string]struct{})
	r.next = 0
	r.mu.Unlock()
}

// ResetAll resets r. It exists so call sites read the same as the
// operation they perform.
func ResetAll(r *Registry) {
	r.Reset()
}
