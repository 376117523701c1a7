// Command tracklight is the progress tracker's entry point: it assembles
// the storage, remote, and service layers, restores the stored session,
// and hands control to the command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driven/config/file"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driven/connectivity"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driven/remote/supabase"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/cli"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
	"github.com/tracklight-labs/tracklight-cli/internal/core/services"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// version is stamped by the release build via -ldflags "-X main.version=...".
var version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Flag parsing happens inside Execute, after wiring; scan early so
	// the wiring itself logs under --verbose.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
			break
		}
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings := file.LoadAppSettings(configStore)

	installID, err := file.EnsureInstallID(configStore)
	if err != nil {
		return fmt.Errorf("preparing install id: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	clock := services.SystemClock{}

	// With no remote configured (or sync switched off) the engine runs
	// local-only: no monitor, no network calls, login unavailable.
	var (
		monitor  *services.ConnectivityMonitor
		remote   driven.RemoteStore
		sessions *services.SessionService
	)
	if settings.Sync.Enabled && settings.Remote.Configured() {
		probe := connectivity.NewProbe(settings.Remote.URL, settings.Remote.AnonKey)
		monitor = services.NewConnectivityMonitor(probe, settings.Sync.ProbeInterval)

		clientCfg := supabase.Config{
			BaseURL:   settings.Remote.URL,
			AnonKey:   settings.Remote.AnonKey,
			InstallID: installID,
		}

		// The auth endpoint authenticates with the anonymous key alone;
		// the data client carries the session's bearer token.
		anonClient, err := supabase.NewClient(clientCfg, nil)
		if err != nil {
			return fmt.Errorf("creating auth client: %w", err)
		}
		sessions = services.NewSessionService(
			store.SessionStore(), supabase.NewAuthClient(anonClient, clock), clock, monitor)

		dataClient, err := supabase.NewClient(clientCfg, supabase.NewSessionTokenSource(ctx, sessions))
		if err != nil {
			return fmt.Errorf("creating remote store: %w", err)
		}
		remote = supabase.NewRemoteStore(dataClient)
	} else {
		sessions = services.NewSessionService(store.SessionStore(), nil, clock, nil)
	}

	queue := services.NewSyncQueue(store.QueueStore(), remote, clock)

	if monitor != nil {
		// Establish reachability before anything consults Status.
		monitor.Check(ctx)
	}

	// Restoring before the engine exists keeps startup single-pass: the
	// monitor records the identity without triggering a reinitialise.
	userID := ""
	if sess, err := sessions.Restore(ctx); err != nil {
		logger.Warn("Session restore failed, starting signed out: %v", err)
	} else if sess != nil {
		userID = sess.UserID
	}

	progress := services.NewProgressStore(store.LocalStore(), remote, queue, monitor, clock)
	defer progress.Close() //nolint:errcheck

	if err := progress.Initialize(ctx, userID); err != nil {
		return fmt.Errorf("initialising progress store: %w", err)
	}

	if monitor != nil {
		// The poll loop keeps long-running commands reconnect-aware; it
		// ends when the root context is cancelled.
		go monitor.Start(ctx) //nolint:errcheck
	}

	cli.SetServices(cli.Services{
		Progress: progress,
		Session:  sessions,
	})
	cli.SetVersion(version)
	cli.SetWatchConfig(&cli.WatchConfig{LogDir: settings.Watch.LogDir})

	return cli.Execute()
}
