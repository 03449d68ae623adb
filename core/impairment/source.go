package impairment

import (
	"golang.org/x/exp/rand"

	"github.com/vakthund/vakthund/core"
)

// drawSource adapts the partitioned math/rand stream to the
// golang.org/x/exp/rand.Source gonum's distributions draw from. The
// adapter is purely mechanical: every Uint64 is built from two Int63
// draws of the underlying stream, so determinism is preserved.
type drawSource struct {
	r core.RandSource
}

var _ rand.Source = drawSource{}

func (s drawSource) Uint64() uint64 {
	return uint64(s.r.Int63())<<32 ^ uint64(s.r.Int63())
}

// Seed is a no-op: seeding happens once, upstream, in the partitioned RNG.
func (s drawSource) Seed(uint64) {}
