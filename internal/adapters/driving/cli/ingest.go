package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestOwner string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest files into managed storage",
	Long: `Streams files into content-addressed managed storage and indexes
them. Byte-identical content deduplicates to the existing asset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "", "owner id for the new assets")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	ctx := context.Background()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}

		asset, err := assetService.Ingest(ctx, f, filepath.Base(path), ingestOwner)
		f.Close()
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("%s -> %s (%s, %s)\n", path, asset.ID, asset.PrimaryType(), asset.Status)
	}
	return nil
}
