package driven

// ConfigStore provides read and write access to persisted configuration.
// Keys use dot notation regardless of how the backing format nests them,
// so the url under a TOML [remote] table is addressed as "remote.url".
type ConfigStore interface {
	// Get returns the raw value for key and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns the string under key, or "" when the key is
	// absent or holds another type.
	GetString(key string) string

	// GetBool returns the bool under key, or false when the key is
	// absent or holds another type.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads the configuration from storage.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
