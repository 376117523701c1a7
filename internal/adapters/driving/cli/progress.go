package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// setToggle records a toggle mutation and prints the confirmation line.
// Shared by the quest and station commands, which differ only in domain
// and vocabulary.
func setToggle(cmd *cobra.Command, d domain.Domain, entityID string, done bool, confirmation string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	value := int64(0)
	if done {
		value = 1
	}

	if err := progressService.Mutate(context.Background(), d, entityID, value); err != nil {
		return fmt.Errorf("failed to record %s progress: %w", d, err)
	}

	cmd.Println(confirmation)
	printOfflineHint(cmd)
	return nil
}

// printOfflineHint tells the user when a change cannot reach the remote
// yet. Local-only mode stays silent: there is nothing to wait for.
func printOfflineHint(cmd *cobra.Command) {
	status := progressService.Status()
	if status.Authenticated && !status.Online {
		cmd.Println("(offline: change queued for sync)")
	}
}

// renderToggleList prints one toggle domain's cached records.
func renderToggleList(cmd *cobra.Command, d domain.Domain, heading, doneVerb, noun, recordHint string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	records, err := progressService.ReadAll(d)
	if err != nil {
		return fmt.Errorf("failed to list %s progress: %w", d, err)
	}

	if len(records) == 0 {
		cmd.Printf("No %s progress recorded.\n", noun)
		cmd.Printf("Record some with: %s\n", recordHint)
		return nil
	}

	done := 0
	for i := range records {
		if records[i].Done() {
			done++
		}
	}

	cmd.Printf("%s (%d tracked, %d %s):\n", heading, len(records), done, doneVerb)
	for i := range records {
		mark := " "
		if records[i].Done() {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s", mark, records[i].EntityID)
		if records[i].CompletedAt != nil {
			line += fmt.Sprintf("  (%s)", records[i].CompletedAt.Format("2006-01-02 15:04"))
		}
		line += stateSuffix(d, records[i].EntityID)
		cmd.Println(line)
	}

	return nil
}

// renderCountList prints the quantity domain's cached records.
func renderCountList(cmd *cobra.Command, d domain.Domain, heading, noun, recordHint string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	records, err := progressService.ReadAll(d)
	if err != nil {
		return fmt.Errorf("failed to list %s progress: %w", d, err)
	}

	if len(records) == 0 {
		cmd.Printf("No %s recorded.\n", noun)
		cmd.Printf("Record some with: %s\n", recordHint)
		return nil
	}

	cmd.Printf("%s (%d tracked):\n", heading, len(records))
	for i := range records {
		cmd.Printf("  %s: %d%s\n", records[i].EntityID, records[i].Value, stateSuffix(d, records[i].EntityID))
	}

	return nil
}

// stateSuffix marks records that have not reached the remote yet.
func stateSuffix(d domain.Domain, entityID string) string {
	switch progressService.RecordState(d, entityID) {
	case domain.RecordDirty:
		return "  *pending"
	case domain.RecordSyncing:
		return "  *syncing"
	default:
		return ""
	}
}
