package main

import (
	"fmt"
	"io"

	"cadence/internal/catalog"
	"cadence/internal/metadata"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}

			prober := metadata.NewProber(cfg.Catalog.MediaDir, cfg.Catalog.SupportedFormats, logger)
			defer prober.Close()

			c, err := catalogLoader(cfg, prober)(cfg.Catalog.DataPath)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), c)
		},
	}
}

// report prints catalog counts and the dangling references the views will
// skip or fall back on.
func report(w io.Writer, c *catalog.Catalog) error {
	fmt.Fprintf(w, "songs: %d\nartists: %d\nalbums: %d\nplaylists: %d\n",
		c.Len(), len(c.Artists()), len(c.Albums()), len(c.Playlists()))

	var problems int
	for _, s := range c.Songs() {
		if _, ok := c.ArtistName(s.ArtistID); !ok {
			fmt.Fprintf(w, "song %d: unknown artist %d\n", s.ID, s.ArtistID)
			problems++
		}
	}
	for _, pl := range c.Playlists() {
		for _, id := range pl.SongIDs {
			if _, ok := c.Song(id); !ok {
				fmt.Fprintf(w, "playlist %d: unknown song %d\n", pl.ID, id)
				problems++
			}
		}
	}

	if problems == 0 {
		fmt.Fprintln(w, "ok")
		return nil
	}
	fmt.Fprintf(w, "%d dangling references\n", problems)
	return nil
}
