package main

import (
	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/metadata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "cadence",
		Short:        "Serve the Cadence music player",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./config.toml",
		"path to the TOML configuration file")

	root.AddCommand(newServeCmd(opts), newCheckCmd(opts), newExportCmd(opts))
	return root
}

// setup loads the configuration and builds the configured logger.
func setup(opts *options) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// catalogLoader returns a LoadFunc that parses the dataset and, when
// enabled, fills durations and art from the media files.
func catalogLoader(cfg *config.Config, prober *metadata.Prober) catalog.LoadFunc {
	return func(path string) (*catalog.Catalog, error) {
		c, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		if cfg.Catalog.ProbeMedia {
			c = prober.Enrich(c)
		}
		return c, nil
	}
}
