package content

import (
	"math/rand/v2"
	"sync"
)

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Sampler draws random entries from pools. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	src Source
}

// NewSampler returns a Sampler backed by src, or by the process-wide
// generator when src is nil.
func NewSampler(src Source) *Sampler {
	if src == nil {
		src = globalSource{}
	}
	return &Sampler{src: src}
}

func (s *Sampler) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntN(n)
}

// One returns a uniformly chosen entry of p. Draws are independent, so
// consecutive calls may return the same entry. p must not be empty.
func (s *Sampler) One(p Pool) string {
	return p.At(s.intN(p.Len()))
}

// Take returns n entries of p chosen without replacement, uniformly over
// unordered subsets, using a partial Fisher-Yates shuffle over the
// indexes. p itself is never reordered. n is clamped to p.Len().
func (s *Sampler) Take(p Pool, n int) []string {
	size := p.Len()
	if n > size {
		n = size
	}
	if n <= 0 {
		return []string{}
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	s.mu.Lock()
	for i := 0; i < n; i++ {
		j := i + s.src.IntN(size-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	s.mu.Unlock()

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = p.At(idx[i])
	}
	return out
}
