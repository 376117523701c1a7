package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "Track crafting station construction",
	Long: `Record and inspect crafting station progress.

Examples:
  tracklight station build forge
  tracklight station demolish forge
  tracklight station list`,
}

var stationBuildCmd = &cobra.Command{
	Use:   "build [station-id]",
	Short: "Mark a station module as built",
	Args:  cobra.ExactArgs(1),
	RunE:  runStationBuild,
}

var stationDemolishCmd = &cobra.Command{
	Use:   "demolish [station-id]",
	Short: "Mark a station module as not built",
	Args:  cobra.ExactArgs(1),
	RunE:  runStationDemolish,
}

var stationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked station modules",
	RunE:  runStationList,
}

func init() {
	stationCmd.AddCommand(stationBuildCmd)
	stationCmd.AddCommand(stationDemolishCmd)
	stationCmd.AddCommand(stationListCmd)
	rootCmd.AddCommand(stationCmd)
}

func runStationBuild(cmd *cobra.Command, args []string) error {
	return setToggle(cmd, domain.DomainStation, args[0], true,
		fmt.Sprintf("Station built: %s", args[0]))
}

func runStationDemolish(cmd *cobra.Command, args []string) error {
	return setToggle(cmd, domain.DomainStation, args[0], false,
		fmt.Sprintf("Station demolished: %s", args[0]))
}

func runStationList(cmd *cobra.Command, _ []string) error {
	return renderToggleList(cmd, domain.DomainStation,
		"Stations", "built", "station", "tracklight station build <station-id>")
}
