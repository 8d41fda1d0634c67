package navigator

import (
	"math"
	"sync"

	"github.com/getdocsy/docsee"
)

// Allocator hands out top-level identifiers. Identifiers are strictly
// increasing and never reused, including across full reloads, so stale
// composite identifiers can never alias a newer index.
type Allocator struct {
	mu        sync.Mutex
	next      uint32
	exhausted bool
}

// NewAllocator creates an Allocator starting at base.
func NewAllocator(base uint32) *Allocator {
	return &Allocator{next: base}
}

// Next returns a fresh identifier. Exhausting the 32-bit space is an
// EINTERNAL error; the allocator never wraps around.
func (a *Allocator) Next() (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.exhausted {
		return 0, docsee.Errorf(docsee.EINTERNAL, "top-level identifier space exhausted")
	}

	id := a.next
	if a.next == math.MaxUint32 {
		a.exhausted = true
	} else {
		a.next++
	}
	return id, nil
}
