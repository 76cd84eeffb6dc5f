package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/TadaTeruki/transport-generation-experiment/internal/server"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

type serveOptions struct {
	configPath string
	port       int
	load       []string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve network growth and routing over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml, .json)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().StringSliceVar(&opts.load, "load", nil, "snapshots to serve at startup")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	srv := server.New(cfg, logger)
	for _, path := range opts.load {
		net, err := network.Load(path)
		if err != nil {
			return err
		}
		id := srv.Add(net, growth.Stats{}, 0)
		logger.Info("loaded network", "path", path, "id", id, "nodes", net.NodeCount())
	}

	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("server stopped")
	}
	return err
}
