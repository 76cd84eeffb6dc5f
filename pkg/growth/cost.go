package growth

import (
	"math"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

// evaluateCost scores an edge climbing from elevationFrom to elevationTo.
// It reports false when the endpoint lies below sea level.
func (b *Builder) evaluateCost(elevationFrom, elevationTo float64, attr network.EdgeAttr) (float64, bool) {
	if elevationTo < b.seaLevel {
		return 0, false
	}

	diff := elevationTo - elevationFrom
	if attr.Even {
		diff *= b.cfg.EvenPathLengthWeight
	}
	if attr.Highway {
		diff *= b.cfg.HighwayPathLengthWeight
	}

	local := 1.0
	if attr.Highway {
		local = 0
	}
	return math.Abs(diff) * elevationTo * (1/b.cfg.HighwayConstructionPriority + local), true
}

// branchLength returns the step length of a branch with the given attributes
func (b *Builder) branchLength(attr network.EdgeAttr) float64 {
	length := b.cfg.BranchLength
	if attr.Even {
		length *= b.cfg.EvenPathLengthWeight
	}
	if attr.Highway {
		length *= b.cfg.HighwayPathLengthWeight
	}
	return length
}
