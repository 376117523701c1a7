package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/logwatch"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	// LogDir is the configured game log directory. Empty means auto-detect.
	LogDir string
}

// watchConfig holds the current watch configuration.
var watchConfig *WatchConfig

// watchLogDir overrides the configured log directory.
var watchLogDir string

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Record quest completions from the game's logs",
	Long: `Follow the game's log directory and record quest completions
automatically, so finishing a quest in-game needs no manual entry.

Completions recorded this way go through the same engine as manual
commands: they apply locally first and sync to the remote in the
background when one is configured.

The log directory is auto-detected from the usual install locations.
Override it with --log-dir or the watch.log_dir setting.

Examples:
  tracklight watch
  tracklight watch --log-dir "/games/emberfall/Logs"`,
	RunE: runWatch,
}

// SetWatchConfig sets the configuration for the watch command.
func SetWatchConfig(config *WatchConfig) {
	watchConfig = config
}

func init() {
	watchCmd.Flags().StringVar(&watchLogDir, "log-dir", "", "Game log directory (default: auto-detect)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}

	logDir, err := resolveLogDir()
	if err != nil {
		return err
	}

	watcher, err := logwatch.New(progressService, logDir)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.Printf("Watching %s for quest completions. Press Ctrl+C to stop.\n", logDir)

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("log watcher failed: %w", err)
	}

	cmd.Println("Stopped.")
	return nil
}

// resolveLogDir picks the log directory: the flag wins, then the
// configured setting, then auto-detection.
func resolveLogDir() (string, error) {
	if watchLogDir != "" {
		return watchLogDir, nil
	}
	if watchConfig != nil && watchConfig.LogDir != "" {
		return watchConfig.LogDir, nil
	}
	return logwatch.DetectLogDir()
}
