package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"
)

func PrettyTime(sec int) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Shuffler shuffles slices from a single random source. Safe for concurrent use.
type Shuffler struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// NewShuffler returns a Shuffler drawing from r, or from a crypto-seeded
// source when r is nil.
func NewShuffler(r *mrand.Rand) *Shuffler {
	if r == nil {
		r = mrand.New(mrand.NewPCG(randomSeed(), randomSeed()))
	}
	return &Shuffler{r: r}
}

// NewSeededShuffler is deterministic for a given seed.
func NewSeededShuffler(seed uint64) *Shuffler {
	return NewShuffler(mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// ShuffledCopy returns a permutation of a. The input is never modified.
func ShuffledCopy[T any](s *Shuffler, a []T) []T {
	out := make([]T, len(a))
	copy(out, a)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:])
}
