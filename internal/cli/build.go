package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/terrain"
)

type buildOptions struct {
	configPath  string
	seed        int64
	terrainSeed int64
	iterations  int
	out         string
	geojson     string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Grow a network over a noise island and save it",
		Example: `  transportgen build --seed 7 --iterations 2000
  transportgen build --config town.toml --out town.json --geojson town.geojson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml, .json)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "growth seed (overrides config)")
	cmd.Flags().Int64Var(&opts.terrainSeed, "terrain-seed", 0, "terrain seed (overrides config)")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 0, "iteration budget (overrides config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "network.json", "snapshot output path")
	cmd.Flags().StringVar(&opts.geojson, "geojson", "", "also write a GeoJSON FeatureCollection")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, opts buildOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Growth.Seed = opts.seed
	}
	if flags.Changed("terrain-seed") {
		cfg.Terrain.Seed = opts.terrainSeed
	}
	if flags.Changed("iterations") {
		cfg.Growth.Iterations = opts.iterations
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	field, err := terrain.NewNoise(cfg.Terrain.Noise())
	if err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	builder, err := growth.NewBuilder(cfg.Growth.Engine(),
		growth.WithLogger(logger),
		growth.WithSeaLevel(cfg.Growth.SeaLevel))
	if err != nil {
		return err
	}

	logger.Debug("growing network", "seed", cfg.Growth.Seed, "iterations", cfg.Growth.Iterations)
	prog := newProgress(logger)
	res, err := builder.Grow(ctx, field)
	if err != nil {
		return fmt.Errorf("grow network: %w", err)
	}
	prog.done(fmt.Sprintf("Grew %d nodes", res.Network.NodeCount()))

	if err := network.Save(res.Network, opts.out); err != nil {
		return err
	}
	printSuccess(c.out, "Network saved")
	printFile(c.out, opts.out)

	if opts.geojson != "" {
		data, err := res.Network.GeoJSON().MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		if err := os.WriteFile(opts.geojson, data, 0o644); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		printFile(c.out, opts.geojson)
	}

	printNetworkSummary(c.out, res.Network.Stats(), res.Stats)
	return nil
}
