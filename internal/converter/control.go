package converter

import (
	"math/rand/v2"
	"sync"
	"time"
)

// =============================================================================
// CONTROL NUMBERS
// =============================================================================

const (
	minControlNumber = 100000
	maxControlNumber = 999999
)

// ControlNumberSource hands out the 6-digit control number for a document.
// Implementations must be safe for concurrent use.
type ControlNumberSource interface {
	Next() int
}

// RandomControlNumbers draws control numbers from a pseudo-random source.
// Numbers already issued, or registered through MarkIssued, are not handed out
// again while unused numbers remain.
type RandomControlNumbers struct {
	mu     sync.Mutex
	rng    *rand.Rand
	issued map[int]struct{}
}

// NewRandomControlNumbers wraps src. A nil src is seeded from the clock.
func NewRandomControlNumbers(src rand.Source) *RandomControlNumbers {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &RandomControlNumbers{
		rng:    rand.New(src),
		issued: make(map[int]struct{}),
	}
}

// NewSeededControlNumbers returns a deterministic source, for tests and replays.
func NewSeededControlNumbers(seed uint64) *RandomControlNumbers {
	return NewRandomControlNumbers(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Next returns an unused number in [100000, 999999]. Once the whole range has
// been issued it starts repeating.
func (r *RandomControlNumbers) Next() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxControlNumber - minControlNumber + 1
	if len(r.issued) >= span {
		r.issued = make(map[int]struct{})
	}

	for {
		n := r.rng.IntN(span) + minControlNumber
		if _, used := r.issued[n]; used {
			continue
		}
		r.issued[n] = struct{}{}
		return n
	}
}

// MarkIssued records numbers used elsewhere (for example in earlier runs) so
// they are skipped.
func (r *RandomControlNumbers) MarkIssued(numbers ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range numbers {
		if n >= minControlNumber && n <= maxControlNumber {
			r.issued[n] = struct{}{}
		}
	}
}

// FixedControlNumber always returns the same number.
type FixedControlNumber int

// Next implements ControlNumberSource.
func (f FixedControlNumber) Next() int {
	return int(f)
}
