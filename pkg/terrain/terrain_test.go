package terrain

import (
	"testing"

	"github.com/paulmach/orb"
)

func testNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Seed:        1337,
		Domain:      orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}},
		Frequency:   3,
		Amplitude:   10,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Falloff:     1,
	}
}

func TestFlat(t *testing.T) {
	unbounded := Flat{Height: 2}
	if h, ok := unbounded.Elevation(-1e9, 1e9); !ok || h != 2 {
		t.Errorf("unbounded = %v, %v", h, ok)
	}

	bounded := Flat{Height: 1, Domain: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}}
	if _, ok := bounded.Elevation(5, 5); !ok {
		t.Error("inside point rejected")
	}
	if _, ok := bounded.Elevation(11, 5); ok {
		t.Error("outside point accepted")
	}
}

func TestFunc(t *testing.T) {
	var tr Terrain = Func(func(x, y float64) (float64, bool) { return x + y, x >= 0 })
	if h, ok := tr.Elevation(1, 2); !ok || h != 3 {
		t.Errorf("Elevation = %v, %v", h, ok)
	}
	if _, ok := tr.Elevation(-1, 2); ok {
		t.Error("expected rejection")
	}
}

func TestNoiseDeterministicAndBounded(t *testing.T) {
	a, err := NewNoise(testNoiseConfig())
	if err != nil {
		t.Fatalf("NewNoise: %v", err)
	}
	b, _ := NewNoise(testNoiseConfig())

	for x := 0.0; x <= 100; x += 7.3 {
		for y := 0.0; y <= 100; y += 6.1 {
			ha, okA := a.Elevation(x, y)
			hb, okB := b.Elevation(x, y)
			if !okA || !okB {
				t.Fatalf("(%v,%v) outside domain", x, y)
			}
			if ha != hb {
				t.Fatalf("(%v,%v): %v != %v", x, y, ha, hb)
			}
			if ha < 0 || ha >= 10 {
				t.Fatalf("(%v,%v): height %v out of [0,10)", x, y, ha)
			}
		}
	}

	if _, ok := a.Elevation(-0.1, 50); ok {
		t.Error("point outside domain accepted")
	}
}

func TestNoiseFalloffSinksCorners(t *testing.T) {
	n, err := NewNoise(testNoiseConfig())
	if err != nil {
		t.Fatalf("NewNoise: %v", err)
	}
	// dist is 1 at the corners, so the falloff factor vanishes there
	for _, p := range []orb.Point{{0, 0}, {100, 0}, {0, 100}, {100, 100}} {
		if h, _ := n.Elevation(p[0], p[1]); h > 1e-9 {
			t.Errorf("corner %v height = %v, want ~0", p, h)
		}
	}
}

func TestNoiseSeedChangesField(t *testing.T) {
	cfg := testNoiseConfig()
	a, _ := NewNoise(cfg)
	cfg.Seed++
	b, _ := NewNoise(cfg)

	differs := false
	for x := 5.0; x < 100 && !differs; x += 9 {
		ha, _ := a.Elevation(x, 50)
		hb, _ := b.Elevation(x, 50)
		differs = ha != hb
	}
	if !differs {
		t.Error("different seeds produced identical samples")
	}
}

func TestNoiseConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NoiseConfig)
	}{
		{"EmptyDomain", func(c *NoiseConfig) { c.Domain = orb.Bound{} }},
		{"NoOctaves", func(c *NoiseConfig) { c.Octaves = 0 }},
		{"ZeroFrequency", func(c *NoiseConfig) { c.Frequency = 0 }},
		{"ZeroAmplitude", func(c *NoiseConfig) { c.Amplitude = 0 }},
		{"NegativeFalloff", func(c *NoiseConfig) { c.Falloff = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testNoiseConfig()
			tt.mutate(&cfg)
			if _, err := NewNoise(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
