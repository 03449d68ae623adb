package impairment

import (
	"github.com/vakthund/vakthund/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// ProbabilisticLoss drops events with a configured probability. Like
// RandomJitter, the draw is seeded from the simulator's PartitionedRNG so
// a run's drop sequence is fully reproducible.
type ProbabilisticLoss struct {
	dist distuv.Bernoulli
}

// NewProbabilisticLoss constructs a ProbabilisticLoss model. dropProbability
// must be in [0, 1]; values outside that range are clamped.
func NewProbabilisticLoss(dropProbability float64, rng core.SeedFunc) *ProbabilisticLoss {
	if dropProbability < 0 {
		dropProbability = 0
	} else if dropProbability > 1 {
		dropProbability = 1
	}
	return &ProbabilisticLoss{
		dist: distuv.Bernoulli{
			P:   dropProbability,
			Src: drawSource{r: rng()},
		},
	}
}

// ShouldDrop draws a Bernoulli(dropProbability) trial and reports whether
// the event should be dropped.
func (p *ProbabilisticLoss) ShouldDrop() bool {
	return p.dist.Rand() == 1
}

// NoLoss never drops an event; the default.
type NoLoss struct{}

// ShouldDrop always returns false.
func (NoLoss) ShouldDrop() bool {
	return false
}
