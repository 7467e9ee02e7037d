package values

import (
	"math/rand"
	"slices"
)

// Split partitions goal column indices into a training half and a held-out
// half. Train and Test are disjoint and together cover every column index
// exactly once.
type Split struct {
	Train, Test []int
}

// NewSplit shuffles the goal indices 0..nGoals-1 with rng and cuts at the
// midpoint. For odd nGoals the extra column goes to Train.
func NewSplit(nGoals int, rng *rand.Rand) Split {
	perm := rng.Perm(nGoals)
	half := nGoals - nGoals/2
	return Split{
		Train: slices.Clone(perm[:half]),
		Test:  slices.Clone(perm[half:]),
	}
}
