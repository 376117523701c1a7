package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "tracklight", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "quest")
	assert.Contains(t, commandNames, "station")
	assert.Contains(t, commandNames, "item")
	assert.Contains(t, commandNames, "status")
	assert.Contains(t, commandNames, "sync")
	assert.Contains(t, commandNames, "login")
	assert.Contains(t, commandNames, "logout")
	assert.Contains(t, commandNames, "reset")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "tui")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "version")
}

func TestSetServices(t *testing.T) {
	oldProgress := progressService
	oldSession := sessionService
	defer func() {
		progressService = oldProgress
		sessionService = oldSession
	}()

	progress := newMockProgressService()
	sess := &mockSessionService{}
	SetServices(Services{Progress: progress, Session: sess})

	assert.Equal(t, progress, progressService)
	assert.Equal(t, sess, sessionService)
}

func TestSetVersion(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	// An empty build-time value must not wipe the default.
	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}
