package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Track collected item quantities",
	Long: `Record and inspect item quantities.

Quantities are absolute, not deltas: "item set iron-ore 42" records
that you hold 42 iron ore.

Examples:
  tracklight item set iron-ore 42
  tracklight item list`,
}

var itemSetCmd = &cobra.Command{
	Use:   "set [item-id] [quantity]",
	Short: "Set an item's collected quantity",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemSet,
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked items",
	RunE:  runItemList,
}

func init() {
	itemCmd.AddCommand(itemSetCmd)
	itemCmd.AddCommand(itemListCmd)
	rootCmd.AddCommand(itemCmd)
}

func runItemSet(cmd *cobra.Command, args []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	entityID := args[0]
	quantity, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: expected a non-negative integer", args[1])
	}

	if err := progressService.Mutate(context.Background(), domain.DomainItemQuantity, entityID, quantity); err != nil {
		return fmt.Errorf("failed to record item quantity: %w", err)
	}

	cmd.Printf("Item quantity set: %s = %d\n", entityID, quantity)
	printOfflineHint(cmd)
	return nil
}

func runItemList(cmd *cobra.Command, _ []string) error {
	return renderCountList(cmd, domain.DomainItemQuantity,
		"Items", "item quantities", "tracklight item set <item-id> <quantity>")
}
