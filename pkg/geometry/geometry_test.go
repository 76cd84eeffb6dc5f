package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name       string
		a1, a2     orb.Point
		b1, b2     orb.Point
		wantOK     bool
		wantProper bool
		wantPoint  orb.Point
	}{
		{
			name: "ProperCross",
			a1:   orb.Point{0, 0}, a2: orb.Point{2, 2},
			b1: orb.Point{0, 2}, b2: orb.Point{2, 0},
			wantOK: true, wantProper: true, wantPoint: orb.Point{1, 1},
		},
		{
			name: "LinesMeetOutsideSegments",
			a1:   orb.Point{0, 0}, a2: orb.Point{1, 0},
			b1: orb.Point{3, -1}, b2: orb.Point{3, 1},
			wantOK: true, wantProper: false, wantPoint: orb.Point{3, 0},
		},
		{
			name: "TouchAtEndpoint",
			a1:   orb.Point{0, 0}, a2: orb.Point{2, 0},
			b1: orb.Point{2, 0}, b2: orb.Point{2, 5},
			wantOK: true, wantProper: true, wantPoint: orb.Point{2, 0},
		},
		{
			name: "Parallel",
			a1:   orb.Point{0, 0}, a2: orb.Point{1, 1},
			b1: orb.Point{0, 1}, b2: orb.Point{1, 2},
			wantOK: false,
		},
		{
			name: "Collinear",
			a1:   orb.Point{0, 0}, a2: orb.Point{1, 0},
			b1: orb.Point{2, 0}, b2: orb.Point{3, 0},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a1, tt.a2, tt.b1, tt.b2)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Proper != tt.wantProper {
				t.Errorf("Proper = %v, want %v", got.Proper, tt.wantProper)
			}
			if !near(got.Point[0], tt.wantPoint[0]) || !near(got.Point[1], tt.wantPoint[1]) {
				t.Errorf("Point = %v, want %v", got.Point, tt.wantPoint)
			}
		})
	}
}

func TestSegmentIntersectionSymmetric(t *testing.T) {
	segments := [][2]orb.Point{
		{{0, 0}, {4, 3}},
		{{1, 5}, {3, -2}},
		{{-2, 1}, {6, 1}},
		{{2.5, -1}, {2.5, 7}},
	}
	for i, a := range segments {
		for j, b := range segments {
			if i == j {
				continue
			}
			ab, okAB := SegmentIntersection(a[0], a[1], b[0], b[1])
			ba, okBA := SegmentIntersection(b[0], b[1], a[0], a[1])
			if okAB != okBA {
				t.Fatalf("segments %d/%d: ok mismatch %v vs %v", i, j, okAB, okBA)
			}
			if !okAB {
				continue
			}
			if ab.Proper != ba.Proper {
				t.Errorf("segments %d/%d: proper mismatch", i, j)
			}
			if !near(ab.Point[0], ba.Point[0]) || !near(ab.Point[1], ba.Point[1]) {
				t.Errorf("segments %d/%d: %v vs %v", i, j, ab.Point, ba.Point)
			}
		}
	}
}

func TestPointToLineDistance(t *testing.T) {
	tests := []struct {
		name  string
		p     orb.Point
		s, e  orb.Point
		wantD float64
	}{
		{"Above", orb.Point{1, 3}, orb.Point{0, 0}, orb.Point{2, 0}, 3},
		{"BeyondSegmentEnd", orb.Point{10, -2}, orb.Point{0, 0}, orb.Point{2, 0}, 2},
		{"OnLine", orb.Point{5, 5}, orb.Point{0, 0}, orb.Point{1, 1}, 0},
		{"Diagonal", orb.Point{0, 2}, orb.Point{0, 0}, orb.Point{2, 2}, math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointToLineDistance(tt.p, tt.s, tt.e); !near(got, tt.wantD) {
				t.Errorf("distance = %v, want %v", got, tt.wantD)
			}
		})
	}

	if d := PointToLineDistance(orb.Point{1, 1}, orb.Point{0, 0}, orb.Point{0, 0}); !math.IsNaN(d) {
		t.Errorf("degenerate line distance = %v, want NaN", d)
	}
}

func TestSegmentHelpers(t *testing.T) {
	s := Segment{P1: orb.Point{3, -1}, P2: orb.Point{-1, 2}}

	b := s.Bound()
	if b.Min != (orb.Point{-1, -1}) || b.Max != (orb.Point{3, 2}) {
		t.Errorf("Bound = %v", b)
	}
	if m := s.Midpoint(); m != (orb.Point{1, 0.5}) {
		t.Errorf("Midpoint = %v", m)
	}
	if l := s.Length(); !near(l, 5) {
		t.Errorf("Length = %v, want 5", l)
	}

	p := Polar(orb.Point{1, 1}, 2, math.Pi/2)
	if !near(p[0], 1) || !near(p[1], 3) {
		t.Errorf("Polar = %v, want (1,3)", p)
	}
	if d := SquaredDistance(orb.Point{0, 0}, orb.Point{3, 4}); d != 25 {
		t.Errorf("SquaredDistance = %v, want 25", d)
	}
}

func TestDistancesMatchPlanar(t *testing.T) {
	tests := []struct {
		name string
		a, b orb.Point
	}{
		{"Degenerate", orb.Point{2, 2}, orb.Point{2, 2}},
		{"Axis", orb.Point{0, 0}, orb.Point{0, -7}},
		{"Diagonal", orb.Point{-1.5, 2}, orb.Point{4, -3.25}},
		{"FarFromOrigin", orb.Point{1e6, 1e6}, orb.Point{1e6 + 3, 1e6 + 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := (Segment{P1: tt.a, P2: tt.b}).Length(), planar.Distance(tt.a, tt.b); got != want {
				t.Errorf("Length = %v, want %v", got, want)
			}
			if got, want := SquaredDistance(tt.a, tt.b), planar.DistanceSquared(tt.a, tt.b); got != want {
				t.Errorf("SquaredDistance = %v, want %v", got, want)
			}
		})
	}
}
