package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

func TestStationCmd_Use(t *testing.T) {
	assert.Equal(t, "station", stationCmd.Use)
}

func TestStationCmd_HasSubcommands(t *testing.T) {
	commands := stationCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "build")
	assert.Contains(t, commandNames, "demolish")
	assert.Contains(t, commandNames, "list")
}

func TestStationBuildCmd_Executes(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"station", "build", "forge"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Station built: forge")

	require.Len(t, mock.mutations, 1)
	assert.Equal(t, domain.DomainStation, mock.mutations[0].domain)
	assert.Equal(t, "forge", mock.mutations[0].entityID)
	assert.Equal(t, int64(1), mock.mutations[0].value)
}

func TestStationDemolishCmd_Executes(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"station", "demolish", "forge"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Station demolished: forge")

	require.Len(t, mock.mutations, 1)
	assert.Equal(t, int64(0), mock.mutations[0].value)
}

func TestStationListCmd_RendersRecords(t *testing.T) {
	builtAt := time.Date(2026, 2, 28, 18, 22, 0, 0, time.UTC)

	mock := newMockProgressService()
	mock.records[domain.DomainStation] = []domain.ProgressRecord{
		{
			ID:          domain.NewRecordID(domain.DomainStation, "forge"),
			Domain:      domain.DomainStation,
			EntityID:    "forge",
			Value:       1,
			UpdatedAt:   builtAt,
			CompletedAt: &builtAt,
		},
	}
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"station", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Stations (1 tracked, 1 built):")
	assert.Contains(t, out, "[x] forge")
	assert.Contains(t, out, "(2026-02-28 18:22)")
}

func TestStationListCmd_Empty(t *testing.T) {
	mock := newMockProgressService()
	cleanup := setupProgressTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"station", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No station progress recorded.")
	assert.Contains(t, buf.String(), "tracklight station build <station-id>")
}

func TestStationCmd_ServiceNotConfigured(t *testing.T) {
	oldProgress := progressService
	progressService = nil
	defer func() {
		progressService = oldProgress
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"station", "build", "forge"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "progress service not configured")
}
