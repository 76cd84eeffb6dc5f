package cli

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

type routeOptions struct {
	network       string
	from          []float64
	to            []float64
	highwayFactor float64
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOptions

	cmd := &cobra.Command{
		Use:     "route",
		Short:   "Find the shortest path between two points of a saved network",
		Example: `  transportgen route --network town.json --from 10,20 --to 80,75`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.network, "network", "network.json", "snapshot written by build")
	cmd.Flags().Float64SliceVar(&opts.from, "from", nil, "start point x,y")
	cmd.Flags().Float64SliceVar(&opts.to, "to", nil, "end point x,y")
	cmd.Flags().Float64Var(&opts.highwayFactor, "highway-factor", 1, "cost multiplier for highway edges (<1 prefers highways)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func parsePoint(name string, v []float64) (orb.Point, error) {
	if len(v) != 2 {
		return orb.Point{}, fmt.Errorf("--%s needs exactly two values x,y, got %d", name, len(v))
	}
	return orb.Point{v[0], v[1]}, nil
}

func (c *CLI) runRoute(cmd *cobra.Command, opts routeOptions) error {
	logger := loggerFromContext(cmd.Context())

	from, err := parsePoint("from", opts.from)
	if err != nil {
		return err
	}
	to, err := parsePoint("to", opts.to)
	if err != nil {
		return err
	}
	if opts.highwayFactor < 0 {
		return fmt.Errorf("--highway-factor cannot be negative")
	}

	net, err := network.Load(opts.network)
	if err != nil {
		return err
	}
	if net.NodeCount() == 0 {
		return fmt.Errorf("network %s has no nodes", opts.network)
	}

	start, startDist := net.NearestNode(from)
	end, endDist := net.NearestNode(to)
	logger.Debug("snapped endpoints", "start", start, "startDistance", startDist, "end", end, "endDistance", endDist)

	nodes, cost, err := net.ShortestPath(start, end, network.RouteOptions{HighwayFactor: opts.highwayFactor})
	if errors.Is(err, network.ErrNoRoute) {
		return fmt.Errorf("nodes %d and %d are not connected: %w", start, end, err)
	}
	if err != nil {
		return err
	}

	printSuccess(c.out, "Route found with %d waypoints", len(nodes))
	printKeyValue(c.out, "length", fmt.Sprintf("%.2f", net.PathLength(nodes)))
	printKeyValue(c.out, "cost", fmt.Sprintf("%.2f", cost))
	for _, n := range nodes {
		p := net.Site(n)
		fmt.Fprintf(c.out, "%d\t%.4f\t%.4f\n", n, p[0], p[1])
	}
	return nil
}
