package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

var questCmd = &cobra.Command{
	Use:   "quest",
	Short: "Track quest completion",
	Long: `Record and inspect quest progress.

Changes apply locally first and reach the remote in the background,
so every command works offline.

Examples:
  tracklight quest complete ancient-gate
  tracklight quest reopen ancient-gate
  tracklight quest list`,
}

var questCompleteCmd = &cobra.Command{
	Use:   "complete [quest-id]",
	Short: "Mark a quest as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestComplete,
}

var questReopenCmd = &cobra.Command{
	Use:   "reopen [quest-id]",
	Short: "Mark a quest as not completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestReopen,
}

var questListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked quests",
	RunE:  runQuestList,
}

func init() {
	questCmd.AddCommand(questCompleteCmd)
	questCmd.AddCommand(questReopenCmd)
	questCmd.AddCommand(questListCmd)
	rootCmd.AddCommand(questCmd)
}

func runQuestComplete(cmd *cobra.Command, args []string) error {
	return setToggle(cmd, domain.DomainQuest, args[0], true,
		fmt.Sprintf("Quest completed: %s", args[0]))
}

func runQuestReopen(cmd *cobra.Command, args []string) error {
	return setToggle(cmd, domain.DomainQuest, args[0], false,
		fmt.Sprintf("Quest reopened: %s", args[0]))
}

func runQuestList(cmd *cobra.Command, _ []string) error {
	return renderToggleList(cmd, domain.DomainQuest,
		"Quests", "completed", "quest", "tracklight quest complete <quest-id>")
}
