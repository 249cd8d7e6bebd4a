package deck

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePool(n int) []catalog.Exercise {
	pool := make([]catalog.Exercise, n)
	for i := range pool {
		pool[i] = catalog.Exercise{
			ID:              fmt.Sprintf("ex%d", i),
			Name:            fmt.Sprintf("Exercise %d", i),
			Difficulty:      catalog.Easy,
			DurationSeconds: 30,
		}
	}
	return pool
}

func seeded(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedRand always picks the given index.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

// =============================================================================
// Recent Tests
// =============================================================================

func TestRecentPush(t *testing.T) {
	var r Recent
	r = r.Push("a")
	r = r.Push("b")
	assert.Equal(t, Recent{"b", "a"}, r)

	for i := 0; i < 20; i++ {
		r = r.Push(fmt.Sprintf("x%d", i))
	}
	assert.Len(t, r, RecentWindow)
	assert.Equal(t, "x19", r[0])
	assert.Equal(t, "x10", r[RecentWindow-1])
}

func TestRecentPushDoesNotAlias(t *testing.T) {
	r := Recent{"a", "b"}
	next := r.Push("c")
	next[1] = "mutated"
	assert.Equal(t, Recent{"a", "b"}, r)
}

func TestRecentContains(t *testing.T) {
	r := Recent{"a", "b"}
	assert.True(t, r.Contains("a"))
	assert.False(t, r.Contains("c"))
	assert.False(t, Recent(nil).Contains("a"))
}

// =============================================================================
// Draw Tests
// =============================================================================

func TestDrawEmptyPool(t *testing.T) {
	recent := Recent{"a"}
	_, next, ok := Draw(nil, recent, seeded(1))
	assert.False(t, ok)
	assert.Equal(t, recent, next)
}

func TestDrawNoRepeatWithinWindow(t *testing.T) {
	for _, size := range []int{11, 12, 20, 33} {
		t.Run(fmt.Sprintf("pool_%d", size), func(t *testing.T) {
			pool := makePool(size)
			rng := seeded(uint64(size))
			var recent Recent
			var history []string

			for i := 0; i < 20; i++ {
				picked, next, ok := Draw(pool, recent, rng)
				require.True(t, ok)

				start := len(history) - RecentWindow
				if start < 0 {
					start = 0
				}
				assert.NotContains(t, history[start:], picked.ID, "draw %d", i)

				history = append(history, picked.ID)
				recent = next
			}
		})
	}
}

func TestDrawForwardProgress(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 10} {
		t.Run(fmt.Sprintf("pool_%d", size), func(t *testing.T) {
			pool := makePool(size)
			var recent Recent
			for _, e := range pool {
				recent = recent.Push(e.ID)
			}

			rng := seeded(7)
			for i := 0; i < 50; i++ {
				picked, next, ok := Draw(pool, recent, rng)
				require.True(t, ok)
				assert.NotEmpty(t, picked.ID)
				assert.LessOrEqual(t, len(next), RecentWindow)
				recent = next
			}
		})
	}
}

func TestDrawShrinksOldestEntry(t *testing.T) {
	pool := makePool(3)
	recent := Recent{"ex0", "ex1", "ex2"}

	picked, next, ok := Draw(pool, recent, fixedRand(0))
	require.True(t, ok)
	assert.Equal(t, "ex2", picked.ID)
	assert.Equal(t, Recent{"ex2", "ex0", "ex1"}, next)
}

func TestDrawFallsBackToFullPool(t *testing.T) {
	pool := makePool(2)
	// Both pool ids are recent and the oldest entry is not in the pool, so
	// releasing it frees nothing.
	recent := Recent{"ex0", "ex1", "stale"}

	picked, next, ok := Draw(pool, recent, fixedRand(1))
	require.True(t, ok)
	assert.Equal(t, "ex1", picked.ID)
	assert.Equal(t, Recent{"ex1"}, next)
}

func TestDrawPoolOfOne(t *testing.T) {
	pool := makePool(1)
	recent := Recent{"ex0"}

	picked, next, ok := Draw(pool, recent, seeded(3))
	require.True(t, ok)
	assert.Equal(t, "ex0", picked.ID)
	assert.Equal(t, Recent{"ex0"}, next)
}

func TestDrawBoundedRecency(t *testing.T) {
	pool := catalog.ByDifficulty(catalog.Silent)
	rng := seeded(42)
	var recent Recent
	for i := 0; i < 200; i++ {
		_, next, ok := Draw(pool, recent, rng)
		require.True(t, ok)
		assert.LessOrEqual(t, len(next), RecentWindow)
		recent = next
	}
}

func TestDrawUniform(t *testing.T) {
	pool := makePool(4)
	rng := seeded(99)
	counts := make(map[string]int)
	for i := 0; i < 4000; i++ {
		picked, _, ok := Draw(pool, nil, rng)
		require.True(t, ok)
		counts[picked.ID]++
	}
	for _, e := range pool {
		assert.InDelta(t, 1000, counts[e.ID], 150, "exercise %s", e.ID)
	}
}

func TestDrawNilRand(t *testing.T) {
	pool := makePool(5)
	_, next, ok := Draw(pool, nil, nil)
	assert.True(t, ok)
	assert.Len(t, next, 1)
}
