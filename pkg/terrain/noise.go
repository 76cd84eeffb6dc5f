package terrain

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// NoiseConfig controls the island height field
type NoiseConfig struct {
	Seed        int64
	Domain      orb.Bound
	Frequency   float64
	Amplitude   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// Falloff lowers the terrain towards the domain border so the island
	// is surrounded by sea. 0 disables it.
	Falloff float64
}

// Validate checks the configuration for values that make the field useless
func (c NoiseConfig) Validate() error {
	if c.Domain.Max[0] <= c.Domain.Min[0] || c.Domain.Max[1] <= c.Domain.Min[1] {
		return errors.New("terrain domain must have a positive area")
	}
	if c.Octaves <= 0 {
		return errors.New("terrain octaves must be positive")
	}
	if c.Frequency <= 0 {
		return errors.New("terrain frequency must be positive")
	}
	if c.Amplitude <= 0 {
		return errors.New("terrain amplitude must be positive")
	}
	if c.Falloff < 0 {
		return errors.New("terrain falloff cannot be negative")
	}
	return nil
}

// Noise creates repeatable terrain using hashed value noise
type Noise struct {
	cfg NoiseConfig
}

// NewNoise validates cfg and returns the height field
func NewNoise(cfg NoiseConfig) (*Noise, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Noise{cfg: cfg}, nil
}

// Domain returns the area where Elevation is defined
func (g *Noise) Domain() orb.Bound {
	return g.cfg.Domain
}

// Elevation implements Terrain. Heights are never negative; the sea shows up
// as elevation 0 near the border when Falloff is set.
func (g *Noise) Elevation(x, y float64) (float64, bool) {
	if !g.cfg.Domain.Contains(orb.Point{x, y}) {
		return 0, false
	}

	// normalize to [0,1] so frequency is independent of the domain size
	size := g.cfg.Domain.Max.X() - g.cfg.Domain.Min.X()
	height := g.cfg.Domain.Max.Y() - g.cfg.Domain.Min.Y()
	nx := (x - g.cfg.Domain.Min.X()) / size
	ny := (y - g.cfg.Domain.Min.Y()) / height

	h := (g.fractalNoise(nx, ny)*0.5 + 0.5) * g.cfg.Amplitude

	if g.cfg.Falloff > 0 {
		dist := math.Hypot(nx-0.5, ny-0.5) / math.Sqrt2 * 2 // 0 at centre, 1 at corners
		h *= math.Max(0, 1-math.Pow(dist, 2)*g.cfg.Falloff)
	}

	return h, true
}

func (g *Noise) fractalNoise(x, y float64) float64 {
	frequency := g.cfg.Frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < g.cfg.Octaves; i++ {
		noise := g.valueNoise(x*frequency, y*frequency)
		noiseSum += noise * amplitude
		maxAmplitude += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func (g *Noise) valueNoise(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	n0 := random2D(x0, y0, g.cfg.Seed)
	n1 := random2D(x1, y0, g.cfg.Seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, y1, g.cfg.Seed)
	n3 := random2D(x1, y1, g.cfg.Seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// random2D returns a value in [-1, 1) for a lattice point
func random2D(x, y int, seed int64) float64 {
	return float64(hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
