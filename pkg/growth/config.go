package growth

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ErrInvalidConfig is wrapped by every error NewBuilder returns for a bad Config.
var ErrInvalidConfig = errors.New("invalid growth config")

// MaxSweepSteps bounds floor(BranchMaxAngle / BranchAngleDeviation), the
// number of angle steps tried on each side of a branch direction.
const MaxSweepSteps = 1024

// DefaultSeaLevel is the elevation below which nothing is built.
const DefaultSeaLevel = 1e-3

// mergeRadiusFactor scales BranchLength into the snapping radius.
const mergeRadiusFactor = 0.8

// Config holds every construction input of the growth engine.
type Config struct {
	// Start is the first site of the network.
	Start orb.Point

	// BranchLength is the base length of a new edge.
	BranchLength float64

	// BranchAngleDeviation is the angular step (radians) of the direction
	// sweep around each branch heading.
	BranchAngleDeviation float64

	// BranchMaxAngle is the widest deviation (radians) tried on either side.
	BranchMaxAngle float64

	// HighwayRotationProbability is the chance that a lateral branch of a
	// highway stays a highway.
	HighwayRotationProbability float64

	// NormalRotationProbability is the chance that a local edge grows a
	// lateral branch at all.
	NormalRotationProbability float64

	// HighwayConstructionPriority divides every cost; larger values make
	// highways extend well before local streets.
	HighwayConstructionPriority float64

	// EvenPathLengthWeight scales length and slope of even branches.
	EvenPathLengthWeight float64

	// HighwayPathLengthWeight scales length and slope of highway branches.
	HighwayPathLengthWeight float64

	// Iterations is the number of candidates popped at most.
	Iterations int

	// Seed feeds the random source used by Builder.Grow.
	Seed int64
}

// DefaultConfig returns settings that grow a town-sized network on a
// 100x100 domain.
func DefaultConfig() Config {
	return Config{
		Start:                       orb.Point{50, 50},
		BranchLength:                1.0,
		BranchAngleDeviation:        0.05,
		BranchMaxAngle:              0.4,
		HighwayRotationProbability:  0.1,
		NormalRotationProbability:   0.4,
		HighwayConstructionPriority: 20,
		EvenPathLengthWeight:        1.5,
		HighwayPathLengthWeight:     2.0,
		Iterations:                  5000,
		Seed:                        0,
	}
}

// sweepSteps returns floor(BranchMaxAngle / BranchAngleDeviation)
func (c Config) sweepSteps() int {
	return int(math.Floor(c.BranchMaxAngle / c.BranchAngleDeviation))
}

// Validate rejects settings that would make the growth loop meaningless or
// unbounded.
func (c Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if !isFinite(c.Start[0]) || !isFinite(c.Start[1]) {
		return invalid("start %v is not finite", c.Start)
	}
	if !(c.BranchLength > 0) || math.IsInf(c.BranchLength, 1) {
		return invalid("branch length must be positive, got %v", c.BranchLength)
	}
	if !(c.BranchAngleDeviation > 0) {
		return invalid("branch angle deviation must be positive, got %v", c.BranchAngleDeviation)
	}
	if !(c.BranchMaxAngle >= 0) || math.IsInf(c.BranchMaxAngle, 1) {
		return invalid("branch max angle cannot be negative, got %v", c.BranchMaxAngle)
	}
	if steps := c.BranchMaxAngle / c.BranchAngleDeviation; steps > MaxSweepSteps {
		return invalid("branch max angle / deviation = %.0f exceeds %d sweep steps", steps, MaxSweepSteps)
	}
	if !isProbability(c.HighwayRotationProbability) {
		return invalid("highway rotation probability must be in [0,1], got %v", c.HighwayRotationProbability)
	}
	if !isProbability(c.NormalRotationProbability) {
		return invalid("normal rotation probability must be in [0,1], got %v", c.NormalRotationProbability)
	}
	if !(c.HighwayConstructionPriority > 0) {
		return invalid("highway construction priority must be positive, got %v", c.HighwayConstructionPriority)
	}
	if !(c.EvenPathLengthWeight > 0) || math.IsInf(c.EvenPathLengthWeight, 1) {
		return invalid("even path length weight must be positive, got %v", c.EvenPathLengthWeight)
	}
	if !(c.HighwayPathLengthWeight > 0) || math.IsInf(c.HighwayPathLengthWeight, 1) {
		return invalid("highway path length weight must be positive, got %v", c.HighwayPathLengthWeight)
	}
	if c.Iterations < 0 {
		return invalid("iterations cannot be negative, got %d", c.Iterations)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
