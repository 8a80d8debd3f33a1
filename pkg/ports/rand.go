package ports

// Rand is the random source used for exploration sampling.
// It is injected explicitly so decisions are reproducible under a fixed seed.
// Implementations shared across goroutines must be safe for concurrent use.
type Rand interface {
	// Float64 returns a number in [0, 1).
	Float64() float64

	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}
