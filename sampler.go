package rbm

import "math/rand"

// Sampler draws binary states.
//
// A Sampler is used by exactly one goroutine at a time, so implementations need not be safe for concurrent use.
type Sampler interface {
	// Bernoulli returns 1 with probability p, and 0 otherwise.
	Bernoulli(p float32) float32
}

// SamplerFunc creates a Sampler from a seed. Each worker of a minibatch gets its own Sampler.
type SamplerFunc func(seed int64) Sampler

type bernoulli struct {
	r *rand.Rand
}

// NewBernoulli is the default SamplerFunc. It is backed by math/rand.
func NewBernoulli(seed int64) Sampler {
	return bernoulli{r: rand.New(rand.NewSource(seed))}
}

func (b bernoulli) Bernoulli(p float32) float32 {
	if b.r.Float32() < p {
		return 1
	}
	return 0
}
