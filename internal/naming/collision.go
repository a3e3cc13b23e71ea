package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by source files and resolves
// duplicates by appending a "-N" suffix to the stem (a.webp, a-1.webp, ...).
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → source path that owns it
	counters map[string]int    // requested output path → next suffix
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Claim records that source owns path without renaming it. It is used for
// outputs whose names cannot collide (re-encoded copies keep the unique
// source name) so later WebP requests see them as taken.
func (cr *CollisionResolver) Claim(source, path string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.owners[path] = source
}

// Resolve returns the final output path for source. If requested is
// unclaimed (or already owned by source) it is returned unchanged and the
// second result is false. Otherwise a numbered variant is returned and the
// second result is true.
func (cr *CollisionResolver) Resolve(source, requested string) (string, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == source {
		cr.owners[requested] = source
		return requested, false
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = source
			return candidate, true
		}
		counter++
	}
}
