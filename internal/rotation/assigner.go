package rotation

import (
	"errors"
	"sync"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// ErrNoAdvisorsAvailable signals a rotation request against an empty pool.
var ErrNoAdvisorsAvailable = errors.New("no advisors available for rotation")

// PreferenceRotation is the sentinel a caller sends to explicitly request
// round-robin assignment; it behaves identically to an empty preference.
const PreferenceRotation = "rotation"

// Pick is the outcome of one assignment: the chosen advisor and whether an
// explicit preference (rather than the rotation cursor) selected it.
type Pick struct {
	Advisor  domain.Advisor
	Explicit bool
}

// Assigner distributes unpreferenced leads across the advisor pool in a
// stable cyclic order shared by all callers. The cursor is serialized behind
// a mutex; concurrent callers each advance it exactly once.
type Assigner struct {
	mu     sync.Mutex
	cursor int
}

// NewAssigner starts the cycle at the head of the pool.
func NewAssigner() *Assigner {
	return &Assigner{}
}

// Next selects one advisor from the ordered pool. A preferred slug that
// matches a pool member is returned as-is and leaves the cursor untouched;
// an empty preference, the rotation sentinel, or a slug no longer in the
// pool all fall through to the cursor.
func (a *Assigner) Next(pool []domain.Advisor, preferred string) (Pick, error) {
	if preferred != "" && preferred != PreferenceRotation {
		for _, advisor := range pool {
			if advisor.Slug == preferred {
				return Pick{Advisor: advisor, Explicit: true}, nil
			}
		}
		// stale reference: fall back to rotation
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if len(pool) == 0 {
		return Pick{}, ErrNoAdvisorsAvailable
	}
	if a.cursor >= len(pool) {
		a.cursor = 0
	}
	advisor := pool[a.cursor]
	a.cursor = (a.cursor + 1) % len(pool)
	return Pick{Advisor: advisor}, nil
}
