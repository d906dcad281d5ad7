package converter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededControlNumbersAreDeterministic(t *testing.T) {
	a := NewSeededControlNumbers(42)
	b := NewSeededControlNumbers(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestControlNumbersInRange(t *testing.T) {
	src := NewSeededControlNumbers(7)
	for i := 0; i < 1000; i++ {
		n := src.Next()
		assert.GreaterOrEqual(t, n, minControlNumber)
		assert.LessOrEqual(t, n, maxControlNumber)
	}
}

func TestControlNumbersConcurrentNoCollisions(t *testing.T) {
	src := NewRandomControlNumbers(nil)

	const workers, perWorker = 8, 250
	var (
		mu   sync.Mutex
		seen = make(map[int]bool)
		wg   sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n := src.Next()
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}

func TestMarkIssuedSkipsNumbers(t *testing.T) {
	probe := NewSeededControlNumbers(99)
	first := probe.Next()

	src := NewSeededControlNumbers(99)
	src.MarkIssued(first, 12, 1000000)

	assert.NotEqual(t, first, src.Next())
}

func TestFixedControlNumber(t *testing.T) {
	assert.Equal(t, 123456, FixedControlNumber(123456).Next())
}
