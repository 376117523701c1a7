// Package cli implements the cobra command tree. Commands talk to the
// engine exclusively through the driving ports; services are wired in by
// the composition root via SetServices, and commands fail with a
// "not configured" error when run without wiring.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// version is overridden at startup via SetVersion.
var version = "dev"

// Services used by commands. Tests swap these for mocks and restore them.
var (
	progressService driving.ProgressService
	sessionService  driving.SessionService
)

// Services bundles the driving ports the command tree consumes.
type Services struct {
	Progress driving.ProgressService
	Session  driving.SessionService
}

// SetServices wires services into the command tree.
func SetServices(s Services) {
	progressService = s.Progress
	sessionService = s.Session
}

// SetVersion records the binary version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "tracklight",
	Short: "Track game progress with offline-first sync",
	Long: `Tracklight records quest completion, crafting-station construction, and
item quantities, locally first and always.

Every change lands on disk before the command returns. With a remote
configured and a session stored, changes also replicate across devices;
anything recorded while offline is queued and delivered on the next
reconnect.`,
	// The composition root reports errors once; cobra must not print them
	// a second time.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
