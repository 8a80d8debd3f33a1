package runtime

import (
	"math/rand/v2"
	"sync"

	"github.com/aretw0/wayfinder/pkg/ports"
)

// lockedRand serializes access to a PCG source so one Rand can back concurrent decisions.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a seeded, concurrency-safe random source.
// Two sources built from the same seed yield the same sequence.
func NewRand(seed uint64) ports.Rand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}
