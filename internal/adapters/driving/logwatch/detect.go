package logwatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateLogDir checks that dir looks like the game's log root: it must
// exist and contain log_-prefixed session directories or .log files.
func ValidateLogDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("log directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("log directory %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, sessionDirPrefix) || strings.HasSuffix(name, ".log") {
			return nil
		}
	}
	return fmt.Errorf("%s does not look like a game log directory", dir)
}

// DetectLogDir probes the conventional install locations and returns the
// first that holds game logs. Non-standard installs need watch.log_dir in
// the config or the --log-dir flag.
func DetectLogDir() (string, error) {
	for _, dir := range defaultLogDirCandidates() {
		if err := ValidateLogDir(dir); err == nil {
			return dir, nil
		}
	}
	return "", errors.New("game log directory not found; set watch.log_dir or pass --log-dir")
}

func defaultLogDirCandidates() []string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, "Games", "Emberfall", "Logs"),
			filepath.Join(home, ".steam", "steam", "steamapps", "common", "Emberfall", "Logs"),
			filepath.Join(home, "Library", "Application Support", "Emberfall", "Logs"),
		)
	}
	candidates = append(candidates,
		`C:\Battlewright Games\Emberfall\Logs`,
		`D:\Battlewright Games\Emberfall\Logs`,
		`C:\Program Files (x86)\Steam\steamapps\common\Emberfall\Logs`,
	)
	return candidates
}
