package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"cadence/internal/catalog"
	"cadence/internal/metadata"
	"cadence/internal/playlist"
	"cadence/pkg/models"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <playlist-id>",
		Short: "Write a dataset playlist as extended M3U",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := strconv.Atoi(args[0])
			if err != nil || playlistID <= 0 {
				return fmt.Errorf("playlist id must be a positive integer, got %q", args[0])
			}

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

			w := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			return exportPlaylist(w, c, playlistID)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// exportPlaylist writes the dataset membership of a playlist, skipping ids
// missing from the catalog.
func exportPlaylist(w io.Writer, c *catalog.Catalog, playlistID int) error {
	pl, ok := c.Playlist(playlistID)
	if !ok {
		return fmt.Errorf("playlist %d not found", playlistID)
	}

	var songs []models.Song
	for _, id := range pl.SongIDs {
		if s, ok := c.Song(id); ok {
			songs = append(songs, s)
		}
	}
	return playlist.WriteM3U(w, songs, func(s models.Song) string {
		return c.ArtistNameOr(s.ArtistID, catalog.UnknownArtist)
	})
}
