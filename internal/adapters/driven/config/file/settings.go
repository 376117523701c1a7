package file

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// Well-known configuration keys.
const (
	KeyRemoteURL         = "remote.url"
	KeyRemoteAnonKey     = "remote.anon_key"
	KeyWatchLogDir       = "watch.log_dir"
	KeyWatchEnabled      = "watch.enabled"
	KeyDeviceInstallID   = "device.install_id"
	KeySyncEnabled       = "sync.enabled"
	KeySyncProbeInterval = "sync.probe_interval"
)

// LoadAppSettings materializes application settings from a config store,
// falling back to defaults for anything the file does not define.
func LoadAppSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	settings.Remote.URL = store.GetString(KeyRemoteURL)
	settings.Remote.AnonKey = store.GetString(KeyRemoteAnonKey)
	settings.Watch.LogDir = store.GetString(KeyWatchLogDir)
	settings.Device.InstallID = store.GetString(KeyDeviceInstallID)

	if _, ok := store.Get(KeyWatchEnabled); ok {
		settings.Watch.Enabled = store.GetBool(KeyWatchEnabled)
	}
	if _, ok := store.Get(KeySyncEnabled); ok {
		settings.Sync.Enabled = store.GetBool(KeySyncEnabled)
	}

	if raw := store.GetString(KeySyncProbeInterval); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			settings.Sync.ProbeInterval = d
		}
	}

	return settings
}

// EnsureInstallID returns the persisted install id, generating and storing
// one on first run. The id attributes remote writes to this device and must
// stay stable across restarts.
func EnsureInstallID(store driven.ConfigStore) (string, error) {
	if id := store.GetString(KeyDeviceInstallID); id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := store.Set(KeyDeviceInstallID, id); err != nil {
		return "", fmt.Errorf("persist install id: %w", err)
	}
	return id, nil
}
