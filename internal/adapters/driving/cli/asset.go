package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Inspect and remove assets",
}

var assetShowCmd = &cobra.Command{
	Use:   "show <asset-id>",
	Short: "Print an asset as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if assetService == nil {
			return errors.New("asset service not configured")
		}
		asset, err := assetService.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(asset, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal asset: %w", err)
		}
		cmd.Println(string(data))
		return nil
	},
}

var assetDeleteCmd = &cobra.Command{
	Use:   "delete <asset-id>",
	Short: "Delete an asset and all its references",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if assetService == nil {
			return errors.New("asset service not configured")
		}
		return assetService.Delete(context.Background(), args[0])
	},
}

func init() {
	assetCmd.AddCommand(assetShowCmd, assetDeleteCmd)
	rootCmd.AddCommand(assetCmd)
}
