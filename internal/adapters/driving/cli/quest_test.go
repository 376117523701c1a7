package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

func TestQuestCmd_Use(t *testing.T) {
	assert.Equal(t, "quest", questCmd.Use)
}

func TestQuestCmd_Short(t *testing.T) {
	assert.Equal(t, "Track quest completion", questCmd.Short)
}

func TestQuestCmd_HasSubcommands(t *testing.T) {
	commands := questCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "complete")
	assert.Contains(t, commandNames, "reopen")
	assert.Contains(t, commandNames, "list")
}

func TestQuestCompleteCmd_Executes(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "complete", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Quest completed: ancient-gate")

	require.Len(t, mock.mutations, 1)
	assert.Equal(t, domain.DomainQuest, mock.mutations[0].domain)
	assert.Equal(t, "ancient-gate", mock.mutations[0].entityID)
	assert.Equal(t, int64(1), mock.mutations[0].value)
}

func TestQuestCompleteCmd_RequiresArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"quest", "complete"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQuestCompleteCmd_OfflineHint(t *testing.T) {
	mock := newMockProgressService()
	mock.status = domain.SyncStatus{Authenticated: true, Online: false, QueueDepth: 1}
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "complete", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "(offline: change queued for sync)")
}

func TestQuestCompleteCmd_NoHintWhenLocalOnly(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "complete", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "queued for sync")
}

func TestQuestCompleteCmd_MutateError(t *testing.T) {
	mock := newMockProgressService()
	mock.mutateErr = domain.ErrInvalidValue
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"quest", "complete", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record quest progress")
}

func TestQuestReopenCmd_Executes(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "reopen", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Quest reopened: ancient-gate")

	require.Len(t, mock.mutations, 1)
	assert.Equal(t, int64(0), mock.mutations[0].value)
}

func TestQuestListCmd_Empty(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No quest progress recorded.")
	assert.Contains(t, buf.String(), "tracklight quest complete <quest-id>")
}

func TestQuestListCmd_RendersRecords(t *testing.T) {
	completedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock := newMockProgressService()
	mock.records[domain.DomainQuest] = []domain.ProgressRecord{
		{
			ID:          domain.NewRecordID(domain.DomainQuest, "ancient-gate"),
			Domain:      domain.DomainQuest,
			EntityID:    "ancient-gate",
			Value:       1,
			UpdatedAt:   completedAt,
			CompletedAt: &completedAt,
		},
		{
			ID:        domain.NewRecordID(domain.DomainQuest, "herbalist-favor"),
			Domain:    domain.DomainQuest,
			EntityID:  "herbalist-favor",
			Value:     0,
			UpdatedAt: completedAt,
		},
	}
	mock.states[domain.NewRecordID(domain.DomainQuest, "herbalist-favor")] = domain.RecordDirty
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"quest", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Quests (2 tracked, 1 completed):")
	assert.Contains(t, out, "[x] ancient-gate")
	assert.Contains(t, out, "(2026-03-01 10:00)")
	assert.Contains(t, out, "[ ] herbalist-favor")
	assert.Contains(t, out, "*pending")
}

func TestQuestListCmd_ReadError(t *testing.T) {
	mock := newMockProgressService()
	mock.readAllErr = domain.ErrUnknownDomain
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"quest", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list quest progress")
}

func TestQuestCmd_ServiceNotConfigured(t *testing.T) {
	oldProgress := progressService
	progressService = nil
	defer func() {
		progressService = oldProgress
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"quest", "complete", "ancient-gate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "progress service not configured")
}
