package random

import (
	"math/rand"
	"sync"
	"time"
)

// Random provides random number generation that can be replaced in tests.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int
}

// Source is a seeded, mutex-guarded Random shared between sessions.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Source. A zero seed picks one from the clock.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Source{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // move choice is not security sensitive
	}
}

func (that *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Intn(n)
}
