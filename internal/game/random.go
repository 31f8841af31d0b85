package game

import (
	"math/rand"
	"time"
)

// Random is the injected source of randomness: shuffles, coin flips, energy
// generation, random targets and the first player all go through it.
type Random interface {
	Intn(n int) int
	CoinFlip() bool // true is heads
	Shuffle(n int, swap func(i, j int))
}

type mathRandom struct {
	r *rand.Rand
}

// NewRandom returns a Random seeded with seed. A zero seed uses the clock.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRandom{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandom) Intn(n int) int {
	return m.r.Intn(n)
}

func (m *mathRandom) CoinFlip() bool {
	return m.r.Intn(2) == 0
}

func (m *mathRandom) Shuffle(n int, swap func(i, j int)) {
	m.r.Shuffle(n, swap)
}

// pickDistinct returns k distinct indices from [0, n) in draw order.
func pickDistinct(rng Random, n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
