package impairment

import (
	"time"

	"github.com/vakthund/vakthund/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomJitter adds a uniformly distributed delay in [0, maxJitterMs]
// milliseconds. The draw is seeded exclusively from the simulator's
// PartitionedRNG so a run's jitter sequence is fully reproducible;
// gonum's distuv.Uniform supplies the distribution shape, not the entropy.
type RandomJitter struct {
	dist distuv.Uniform
}

// NewRandomJitter constructs a RandomJitter drawing from rng, isolated to
// whichever subsystem name the caller partitioned it under (conventionally
// core.SubsystemJitter).
func NewRandomJitter(maxJitterMs uint64, rng core.SeedFunc) *RandomJitter {
	return &RandomJitter{
		dist: distuv.Uniform{
			Min: 0,
			Max: float64(maxJitterMs),
			Src: drawSource{r: rng()},
		},
	}
}

// Apply returns base plus a fresh uniform draw in [0, maxJitterMs]ms.
func (j *RandomJitter) Apply(base time.Duration) time.Duration {
	if j.dist.Max == 0 {
		return base
	}
	addedMs := j.dist.Rand()
	return base + time.Duration(addedMs*float64(time.Millisecond))
}

// NoJitter leaves the base duration unchanged; the default when no jitter
// is configured.
type NoJitter struct{}

// Apply returns base unchanged.
func (NoJitter) Apply(base time.Duration) time.Duration {
	return base
}
