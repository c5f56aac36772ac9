package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var (
	albumOwner  string
	albumParent string
)

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Manage albums",
}

var albumCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create an album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if albumService == nil {
			return errors.New("album service not configured")
		}
		album, err := albumService.Create(context.Background(), args[0], albumOwner, albumParent)
		if err != nil {
			return err
		}
		cmd.Printf("created album %s\n", album.ID)
		return nil
	},
}

var albumAddCmd = &cobra.Command{
	Use:   "add <album-id> <asset-id>",
	Short: "Add an asset to an album",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if albumService == nil {
			return errors.New("album service not configured")
		}
		return albumService.AddAsset(context.Background(), args[0], args[1])
	},
}

var albumRemoveCmd = &cobra.Command{
	Use:   "remove <album-id> <asset-id>",
	Short: "Remove an asset from an album",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if albumService == nil {
			return errors.New("album service not configured")
		}
		return albumService.RemoveAsset(context.Background(), args[0], args[1])
	},
}

var albumCoverCmd = &cobra.Command{
	Use:   "cover <album-id> <asset-id>",
	Short: "Set the album cover",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if albumService == nil {
			return errors.New("album service not configured")
		}
		return albumService.SetCover(context.Background(), args[0], args[1])
	},
}

var albumDeleteCmd = &cobra.Command{
	Use:   "delete <album-id>",
	Short: "Delete an album (assets are untouched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if albumService == nil {
			return errors.New("album service not configured")
		}
		return albumService.Delete(context.Background(), args[0])
	},
}

func init() {
	albumCreateCmd.Flags().StringVar(&albumOwner, "owner", "", "owner id for the album")
	albumCreateCmd.Flags().StringVar(&albumParent, "parent", "", "parent album id")
	albumCmd.AddCommand(albumCreateCmd, albumAddCmd, albumRemoveCmd, albumCoverCmd, albumDeleteCmd)
	rootCmd.AddCommand(albumCmd)
}
