// Package geometry holds the planar helpers used while growing the network:
// segment crossings, point/line distances and polar endpoint construction.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Segment represents a line segment between two points
type Segment struct {
	P1, P2 orb.Point
}

// Bound returns the axis-aligned bounding box of the segment
func (s Segment) Bound() orb.Bound {
	return orb.Bound{Min: s.P1, Max: s.P1}.Extend(s.P2)
}

// Midpoint returns the point halfway between both endpoints
func (s Segment) Midpoint() orb.Point {
	return Midpoint(s.P1, s.P2)
}

// Length returns the Euclidean length of the segment
func (s Segment) Length() float64 {
	return planar.Distance(s.P1, s.P2)
}

// Crossing is the solution of two segments' line equations.
// Proper is set when the point lies within both segments' extents.
type Crossing struct {
	Point  orb.Point
	Proper bool
}

// SegmentIntersection intersects the lines through segments a and b using
// their general form (a1*x + b1*y = c1). It reports false when the lines are
// parallel, i.e. the determinant is exactly zero.
func SegmentIntersection(aStart, aEnd, bStart, bEnd orb.Point) (Crossing, bool) {
	a1 := aEnd[1] - aStart[1]
	b1 := aStart[0] - aEnd[0]
	c1 := a1*aStart[0] + b1*aStart[1]

	a2 := bEnd[1] - bStart[1]
	b2 := bStart[0] - bEnd[0]
	c2 := a2*bStart[0] + b2*bStart[1]

	determinant := a1*b2 - a2*b1
	if determinant == 0 {
		return Crossing{}, false
	}

	x := (b2*c1 - b1*c2) / determinant
	y := (a1*c2 - a2*c1) / determinant
	p := orb.Point{x, y}

	return Crossing{
		Point:  p,
		Proper: withinExtent(aStart, aEnd, p) && withinExtent(bStart, bEnd, p),
	}, true
}

// withinExtent checks if point q lies inside the box spanned by p and r (inclusive)
func withinExtent(p, r, q orb.Point) bool {
	return (q[0]-p[0])*(q[0]-r[0]) <= 0 && (q[1]-p[1])*(q[1]-r[1]) <= 0
}

// PointToLineDistance calculates the perpendicular distance from point to the
// infinite line through lineStart and lineEnd. A degenerate line yields NaN.
func PointToLineDistance(point, lineStart, lineEnd orb.Point) float64 {
	dx := lineEnd[0] - lineStart[0]
	dy := lineEnd[1] - lineStart[1]

	return math.Abs(dy*point[0]-dx*point[1]+lineEnd[0]*lineStart[1]-lineEnd[1]*lineStart[0]) /
		math.Sqrt(dx*dx+dy*dy)
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// Polar returns the point at the given distance and angle (radians) from origin
func Polar(origin orb.Point, length, angle float64) orb.Point {
	return orb.Point{
		origin[0] + length*math.Cos(angle),
		origin[1] + length*math.Sin(angle),
	}
}

// SquaredDistance returns the squared Euclidean distance between a and b
func SquaredDistance(a, b orb.Point) float64 {
	return planar.DistanceSquared(a, b)
}
