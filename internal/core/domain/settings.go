package domain

import "time"

const unknownDescription = "Unknown"

// RemoteSettings configures the multi-device remote store.
type RemoteSettings struct {
	// URL is the remote project base URL.
	URL string

	// AnonKey is the project's public API key, sent with every request.
	AnonKey string
}

// Configured reports whether a remote endpoint is set. When false the
// engine runs local-only with no remote calls of any kind.
func (r RemoteSettings) Configured() bool {
	return r.URL != "" && r.AnonKey != ""
}

// WatchSettings configures the game-log watcher.
type WatchSettings struct {
	// LogDir is the game's log directory. Empty means auto-detect.
	LogDir string

	// Enabled indicates whether the watcher records progress.
	Enabled bool
}

// DeviceSettings identifies this installation.
type DeviceSettings struct {
	// InstallID is a uuid generated on first run and sent as a client
	// header on remote calls, for multi-device debugging.
	InstallID string
}

// SyncSettings tunes the synchronisation engine.
type SyncSettings struct {
	// Enabled is the master switch for remote synchronisation.
	Enabled bool

	// ProbeInterval is how often connectivity is re-checked.
	ProbeInterval time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Remote holds remote store settings.
	Remote RemoteSettings

	// Watch holds game-log watcher settings.
	Watch WatchSettings

	// Device holds installation identity.
	Device DeviceSettings

	// Sync holds engine tuning.
	Sync SyncSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Remote is left unconfigured by default; users opt in to multi-device
// sync by setting remote.url and remote.anon_key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Remote is left unconfigured - local-only until the user opts in
		Remote: RemoteSettings{},
		Watch: WatchSettings{
			Enabled: false,
		},
		Sync: SyncSettings{
			Enabled:       true,
			ProbeInterval: 30 * time.Second,
		},
	}
}
