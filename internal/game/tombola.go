// internal/game/tombola.go
//
// Ball pool for the bingo mini-game: uniform draws without replacement.

package game

import (
	"errors"
	"math/rand"
)

// ErrNoBalls is returned by Draw once every ball of the round has come out.
var ErrNoBalls = errors.New("tombola: no balls remaining")

// Tombola holds the undrawn balls of the current round and the draw history.
// Balls are identified by the integers 1..n.
type Tombola struct {
	remaining []int
	drawn     []int
	rng       *rand.Rand
}

// NewTombola creates a tombola filled with balls 1..n.
func NewTombola(n int, rng *rand.Rand) *Tombola {
	t := &Tombola{rng: rng}
	t.Reset(n)
	return t
}

// Reset puts all n balls back and clears the draw history. Called whenever a
// fresh bingo grid is issued.
func (t *Tombola) Reset(n int) {
	t.remaining = t.remaining[:0]
	for b := 1; b <= n; b++ {
		t.remaining = append(t.remaining, b)
	}
	t.drawn = t.drawn[:0]
}

// Draw removes one uniformly random ball from the pool and records it.
func (t *Tombola) Draw() (int, error) {
	if len(t.remaining) == 0 {
		return 0, ErrNoBalls
	}
	i := t.rng.Intn(len(t.remaining))
	ball := t.remaining[i]
	// Swap-remove: the pool is a set, order does not matter.
	t.remaining[i] = t.remaining[len(t.remaining)-1]
	t.remaining = t.remaining[:len(t.remaining)-1]
	t.drawn = append(t.drawn, ball)
	return ball, nil
}

// Remaining returns how many balls are still in the pool.
func (t *Tombola) Remaining() int { return len(t.remaining) }

// Drawn returns the balls drawn so far, in draw order.
func (t *Tombola) Drawn() []int { return append([]int(nil), t.drawn...) }
