// Package terrain provides height fields the growth engine can query.
//
// The engine only needs Terrain; Noise is a self-contained fractal value-noise
// island used by the command line tool and the HTTP server.
package terrain

import "github.com/paulmach/orb"

// Terrain answers elevation queries. ok is false when (x, y) lies outside the
// generation domain. Implementations must be pure functions of the coordinates.
type Terrain interface {
	Elevation(x, y float64) (elevation float64, ok bool)
}

// Func adapts an ordinary function to Terrain
type Func func(x, y float64) (float64, bool)

// Elevation implements Terrain
func (f Func) Elevation(x, y float64) (float64, bool) {
	return f(x, y)
}

// Flat is a constant height field. A zero Domain means unbounded.
type Flat struct {
	Height float64
	Domain orb.Bound
}

// Elevation implements Terrain
func (f Flat) Elevation(x, y float64) (float64, bool) {
	if f.Domain != (orb.Bound{}) && !f.Domain.Contains(orb.Point{x, y}) {
		return 0, false
	}
	return f.Height, true
}
