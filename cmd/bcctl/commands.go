package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/replaylab/ballchasing-client/pkg/client"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the API key and show the account's patron tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := newClient()
		if err != nil {
			return err
		}

		ping, err := bc.Ping(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("name:  %s\n", ping.Name)
		fmt.Printf("steam: %s\n", ping.SteamID)
		fmt.Printf("tier:  %s\n", ping.Type)

		state := bc.Quota()
		fmt.Printf("quota: %d requests per %s\n", state.RequestsPerWindow, state.Window)
		return nil
	},
}

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List known map codes and names",
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := newClient()
		if err != nil {
			return err
		}

		maps, err := bc.GetMaps(cmd.Context())
		if err != nil {
			return err
		}

		return json.NewEncoder(os.Stdout).Encode(maps)
	},
}

var (
	replaysCount    int
	replaysUploader string
	replaysPlaylist string
	replaysTitle    string
	replaysPro      bool
	replaysJSON     bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Search replays",
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := newClient()
		if err != nil {
			return err
		}

		filter := client.ReplayFilter{
			Title:    replaysTitle,
			Uploader: replaysUploader,
			Pro:      replaysPro,
			Count:    replaysCount,
		}
		if replaysPlaylist != "" {
			filter.Playlists = []client.Playlist{client.Playlist(replaysPlaylist)}
		}

		enc := json.NewEncoder(os.Stdout)
		for replay, err := range bc.ListReplays(filter).All(cmd.Context()) {
			if err != nil {
				return err
			}
			if replaysJSON {
				if err := enc.Encode(replay); err != nil {
					return err
				}
				continue
			}
			fmt.Printf("%s  %-20s  %s\n", replay.ID, replay.PlaylistID, replay.Title)
		}
		return nil
	},
}

var (
	uploadVisibility string
	uploadGroup      string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload replay files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := newClient()
		if err != nil {
			return err
		}

		opts := client.UploadOptions{
			Visibility: client.Visibility(uploadVisibility),
			Group:      uploadGroup,
		}

		for _, path := range args {
			result, err := bc.UploadReplayFile(cmd.Context(), path, opts)
			switch {
			case errors.Is(err, client.ErrDuplicateReplay):
				fmt.Printf("%s: duplicate of %s\n", path, result.ID)
			case err != nil:
				return fmt.Errorf("%s: %w", path, err)
			default:
				fmt.Printf("%s: uploaded as %s\n", path, result.ID)
			}
		}
		return nil
	},
}

var (
	downloadDir       string
	downloadGroup     bool
	downloadRecursive bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <id>...",
	Short: "Download replay files, or whole groups with --group",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := newClient()
		if err != nil {
			return err
		}

		for _, id := range args {
			if downloadGroup {
				if err := bc.DownloadGroup(cmd.Context(), id, downloadDir, downloadRecursive); err != nil {
					return fmt.Errorf("group %s: %w", id, err)
				}
				fmt.Printf("group %s downloaded to %s\n", id, downloadDir)
				continue
			}
			if err := bc.DownloadReplayToFile(cmd.Context(), id, downloadDir); err != nil {
				return fmt.Errorf("replay %s: %w", id, err)
			}
			fmt.Printf("replay %s downloaded to %s\n", id, downloadDir)
		}
		return nil
	},
}

func init() {
	replaysCmd.Flags().IntVar(&replaysCount, "count", 50, "maximum replays to list (0 for all)")
	replaysCmd.Flags().StringVar(&replaysUploader, "uploader", "", "filter by uploader steam id, or 'me'")
	replaysCmd.Flags().StringVar(&replaysPlaylist, "playlist", "", "filter by playlist, e.g. ranked-doubles")
	replaysCmd.Flags().StringVar(&replaysTitle, "title", "", "filter by title")
	replaysCmd.Flags().BoolVar(&replaysPro, "pro", false, "only replays with pro players")
	replaysCmd.Flags().BoolVar(&replaysJSON, "json", false, "emit full replay objects as JSON lines")

	uploadCmd.Flags().StringVar(&uploadVisibility, "visibility", "public", "replay visibility (public, unlisted, private)")
	uploadCmd.Flags().StringVar(&uploadGroup, "group", "", "assign uploaded replays to this group id")

	downloadCmd.Flags().StringVar(&downloadDir, "dir", ".", "target directory")
	downloadCmd.Flags().BoolVar(&downloadGroup, "group", false, "treat ids as group ids and download their replays")
	downloadCmd.Flags().BoolVar(&downloadRecursive, "recursive", false, "with --group, mirror child groups as nested directories")

	rootCmd.AddCommand(pingCmd, mapsCmd, replaysCmd, uploadCmd, downloadCmd)
}
