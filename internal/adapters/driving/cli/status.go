package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Shows the aggregate sync status: queue depth, remote reachability,
session state, and whether a sync is in flight.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	status := progressService.Status()

	if statusJSON {
		return outputStatusJSON(cmd, status)
	}
	return outputStatusText(cmd, status)
}

func outputStatusJSON(cmd *cobra.Command, status domain.SyncStatus) error {
	// State is derived, not stored, so the wire shape adds it here.
	out := struct {
		domain.SyncStatus
		State domain.SyncState `json:"state"`
	}{SyncStatus: status, State: status.State()}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputStatusText(cmd *cobra.Command, status domain.SyncStatus) error {
	if sessionService == nil {
		cmd.Println("Mode: local-only (no remote configured)")
		cmd.Println("Progress stays on this device.")
		return nil
	}

	cmd.Printf("Sync: %s\n", status.State().Description())

	if session, err := sessionService.Current(context.Background()); err == nil {
		account := session.Email
		if account == "" {
			account = session.UserID
		}
		cmd.Printf("Account: %s\n", account)
	} else {
		cmd.Println("Account: signed out (progress stays on this device)")
	}

	if status.Online {
		cmd.Println("Remote: reachable")
	} else {
		cmd.Println("Remote: unreachable")
	}

	switch status.QueueDepth {
	case 0:
		cmd.Println("Queue: empty")
	case 1:
		cmd.Println("Queue: 1 pending change")
	default:
		cmd.Printf("Queue: %d pending changes\n", status.QueueDepth)
	}

	return nil
}
