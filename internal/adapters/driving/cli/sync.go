package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile progress with the remote now",
	Long: `Fetches remote progress, merges it with local state, and pushes
queued changes. Background sync does this on its own; the command forces
a round immediately.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	cmd.Println("Syncing...")

	if err := progressService.Reconcile(context.Background()); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoRemote):
			return errors.New("no remote configured; progress stays on this device")
		case errors.Is(err, domain.ErrNotAuthenticated):
			return errors.New("not signed in; run: tracklight login")
		case errors.Is(err, domain.ErrSyncInProgress):
			cmd.Println("A sync is already running.")
			return nil
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	status := progressService.Status()
	if status.QueueDepth > 0 {
		cmd.Printf("Sync finished with %d change(s) still queued.\n", status.QueueDepth)
	} else {
		cmd.Println("Sync complete.")
	}
	return nil
}
