package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all tracked progress",
	Long: `Deletes every tracked record: the local cache, the on-disk store,
the pending sync queue, and, when signed in and online, your rows on the
remote. There is no undo.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the deletion")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	if !resetYes {
		return errors.New("refusing to reset without --yes")
	}

	if err := progressService.ResetAll(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("All progress deleted.")
	return nil
}
