package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass",
	Long: `Walks the configured roots once: registers unknown files, revives
assets whose files reappeared and marks missing ones.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if reconciler == nil {
			return errors.New("reconciler not configured")
		}
		return reconciler.Reconcile(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
