// Package config loads the settings shared by the CLI and the HTTP server.
//
// Files may be TOML, YAML or JSON; the format is picked from the extension.
// Values missing from a file keep their defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/terrain"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

type Config struct {
	Growth  GrowthConfig  `toml:"growth" yaml:"growth" json:"growth"`
	Terrain TerrainConfig `toml:"terrain" yaml:"terrain" json:"terrain"`
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server"`
}

type GrowthConfig struct {
	StartX                      float64 `toml:"start_x" yaml:"start_x" json:"startX"`
	StartY                      float64 `toml:"start_y" yaml:"start_y" json:"startY"`
	BranchLength                float64 `toml:"branch_length" yaml:"branch_length" json:"branchLength"`
	BranchAngleDeviation        float64 `toml:"branch_angle_deviation" yaml:"branch_angle_deviation" json:"branchAngleDeviation"`
	BranchMaxAngle              float64 `toml:"branch_max_angle" yaml:"branch_max_angle" json:"branchMaxAngle"`
	HighwayRotationProbability  float64 `toml:"highway_rotation_probability" yaml:"highway_rotation_probability" json:"highwayRotationProbability"`
	NormalRotationProbability   float64 `toml:"normal_rotation_probability" yaml:"normal_rotation_probability" json:"normalRotationProbability"`
	HighwayConstructionPriority float64 `toml:"highway_construction_priority" yaml:"highway_construction_priority" json:"highwayConstructionPriority"`
	EvenPathLengthWeight        float64 `toml:"even_path_length_weight" yaml:"even_path_length_weight" json:"evenPathLengthWeight"`
	HighwayPathLengthWeight     float64 `toml:"highway_path_length_weight" yaml:"highway_path_length_weight" json:"highwayPathLengthWeight"`
	Iterations                  int     `toml:"iterations" yaml:"iterations" json:"iterations"`
	Seed                        int64   `toml:"seed" yaml:"seed" json:"seed"`
	SeaLevel                    float64 `toml:"sea_level" yaml:"sea_level" json:"seaLevel"`
}

type TerrainConfig struct {
	Seed        int64   `toml:"seed" yaml:"seed" json:"seed"`
	Width       float64 `toml:"width" yaml:"width" json:"width"`
	Height      float64 `toml:"height" yaml:"height" json:"height"`
	Frequency   float64 `toml:"frequency" yaml:"frequency" json:"frequency"`
	Amplitude   float64 `toml:"amplitude" yaml:"amplitude" json:"amplitude"`
	Octaves     int     `toml:"octaves" yaml:"octaves" json:"octaves"`
	Persistence float64 `toml:"persistence" yaml:"persistence" json:"persistence"`
	Lacunarity  float64 `toml:"lacunarity" yaml:"lacunarity" json:"lacunarity"`
	Falloff     float64 `toml:"falloff" yaml:"falloff" json:"falloff"`
}

type ServerConfig struct {
	ListenAddress string `toml:"listen_address" yaml:"listen_address" json:"listenAddress"`
	Port          int    `toml:"port" yaml:"port" json:"port"`
	// MaxIterations caps the iteration budget a single request may ask for.
	MaxIterations int `toml:"max_iterations" yaml:"max_iterations" json:"maxIterations"`
	MaxNetworks   int `toml:"max_networks" yaml:"max_networks" json:"maxNetworks"`
}

// Default returns a configuration that grows a network in the middle of a
// 100x100 island.
func Default() *Config {
	g := growth.DefaultConfig()
	return &Config{
		Growth: GrowthConfig{
			StartX:                      g.Start[0],
			StartY:                      g.Start[1],
			BranchLength:                g.BranchLength,
			BranchAngleDeviation:        g.BranchAngleDeviation,
			BranchMaxAngle:              g.BranchMaxAngle,
			HighwayRotationProbability:  g.HighwayRotationProbability,
			NormalRotationProbability:   g.NormalRotationProbability,
			HighwayConstructionPriority: g.HighwayConstructionPriority,
			EvenPathLengthWeight:        g.EvenPathLengthWeight,
			HighwayPathLengthWeight:     g.HighwayPathLengthWeight,
			Iterations:                  g.Iterations,
			Seed:                        g.Seed,
			SeaLevel:                    growth.DefaultSeaLevel,
		},
		Terrain: TerrainConfig{
			Seed:        1,
			Width:       100,
			Height:      100,
			Frequency:   3,
			Amplitude:   10,
			Octaves:     5,
			Persistence: 0.5,
			Lacunarity:  2,
			Falloff:     1,
		},
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			Port:          8080,
			MaxIterations: 50000,
			MaxNetworks:   64,
		},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills in server defaults and checks the growth and terrain
// sections.
func (c *Config) Validate() error {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxIterations < 0 {
		return fmt.Errorf("server.max_iterations cannot be negative")
	}
	if c.Server.MaxNetworks < 0 {
		return fmt.Errorf("server.max_networks cannot be negative")
	}

	if err := c.Growth.Engine().Validate(); err != nil {
		return fmt.Errorf("growth: %w", err)
	}
	if err := c.Terrain.Noise().Validate(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	return nil
}

// Engine converts the section into the engine's Config.
func (g GrowthConfig) Engine() growth.Config {
	return growth.Config{
		Start:                       orb.Point{g.StartX, g.StartY},
		BranchLength:                g.BranchLength,
		BranchAngleDeviation:        g.BranchAngleDeviation,
		BranchMaxAngle:              g.BranchMaxAngle,
		HighwayRotationProbability:  g.HighwayRotationProbability,
		NormalRotationProbability:   g.NormalRotationProbability,
		HighwayConstructionPriority: g.HighwayConstructionPriority,
		EvenPathLengthWeight:        g.EvenPathLengthWeight,
		HighwayPathLengthWeight:     g.HighwayPathLengthWeight,
		Iterations:                  g.Iterations,
		Seed:                        g.Seed,
	}
}

// Noise converts the section into a height field config anchored at the
// origin.
func (t TerrainConfig) Noise() terrain.NoiseConfig {
	return terrain.NoiseConfig{
		Seed:        t.Seed,
		Domain:      orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{t.Width, t.Height}},
		Frequency:   t.Frequency,
		Amplitude:   t.Amplitude,
		Octaves:     t.Octaves,
		Persistence: t.Persistence,
		Lacunarity:  t.Lacunarity,
		Falloff:     t.Falloff,
	}
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.ListenAddress, s.Port)
}
