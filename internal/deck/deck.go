// Package deck draws exercise cards while steering away from recent repeats.
package deck

import (
	"math/rand/v2"

	"github.com/deskercise/deskercise/internal/catalog"
)

// RecentWindow is the number of recently drawn ids excluded from a draw.
const RecentWindow = 10

// Recent holds recently drawn exercise ids, most recent first.
type Recent []string

// Contains reports whether id is in the window.
func (r Recent) Contains(id string) bool {
	for _, v := range r {
		if v == id {
			return true
		}
	}
	return false
}

// Push returns a new window with id at the front, truncated to RecentWindow.
func (r Recent) Push(id string) Recent {
	n := len(r) + 1
	if n > RecentWindow {
		n = RecentWindow
	}
	out := make(Recent, 0, n)
	out = append(out, id)
	for _, v := range r {
		if len(out) == n {
			break
		}
		out = append(out, v)
	}
	return out
}

// withoutOldest returns a copy of r minus its last entry.
func (r Recent) withoutOldest() Recent {
	if len(r) == 0 {
		return nil
	}
	out := make(Recent, len(r)-1)
	copy(out, r[:len(r)-1])
	return out
}

// Rand is the randomness source used to pick a card.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// Draw picks one exercise from pool uniformly at random, excluding ids in
// recent. When every pool entry is recent, the oldest recent entry is
// released once; if that still leaves nothing, the whole pool is eligible
// and the window restarts empty. The picked id is pushed onto the returned
// window. An empty pool yields ok=false and leaves recent unchanged.
func Draw(pool []catalog.Exercise, recent Recent, rng Rand) (catalog.Exercise, Recent, bool) {
	if len(pool) == 0 {
		return catalog.Exercise{}, recent, false
	}
	if rng == nil {
		rng = globalRand{}
	}

	available := exclude(pool, recent)
	if len(available) == 0 && len(recent) > 0 {
		recent = recent.withoutOldest()
		available = exclude(pool, recent)
	}
	if len(available) == 0 {
		available = pool
		recent = nil
	}

	picked := available[rng.IntN(len(available))]
	return picked, recent.Push(picked.ID), true
}

func exclude(pool []catalog.Exercise, recent Recent) []catalog.Exercise {
	out := make([]catalog.Exercise, 0, len(pool))
	for _, e := range pool {
		if !recent.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}
