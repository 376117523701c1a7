package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// ProgressGetInput is the input schema for the progress_get tool.
type ProgressGetInput struct {
	Domain   string `json:"domain" jsonschema:"progress domain: quest, station, or item_quantity"`
	EntityID string `json:"entity_id" jsonschema:"the quest, station module, or item identifier"`
}

// ProgressGetOutput is the output schema for the progress_get tool.
type ProgressGetOutput struct {
	Found  bool          `json:"found"`
	Record *RecordOutput `json:"record,omitempty"`
}

// ProgressSetInput is the input schema for the progress_set tool.
type ProgressSetInput struct {
	Domain   string `json:"domain" jsonschema:"progress domain: quest, station, or item_quantity"`
	EntityID string `json:"entity_id" jsonschema:"the quest, station module, or item identifier"`
	Value    int64  `json:"value" jsonschema:"1/0 for quest and station, a non-negative count for item_quantity"`
}

// ProgressSetOutput is the output schema for the progress_set tool.
type ProgressSetOutput struct {
	Record RecordOutput `json:"record"`

	// Queued reports whether the change still awaits its remote write.
	Queued bool `json:"queued"`
}

// SyncStatusInput is the input schema for the sync_status tool.
type SyncStatusInput struct{}

// SyncStatusOutput is the output schema for the sync_status tool.
type SyncStatusOutput struct {
	State         string `json:"state"`
	Online        bool   `json:"online"`
	Authenticated bool   `json:"authenticated"`
	Syncing       bool   `json:"syncing"`
	QueueDepth    int    `json:"queue_depth"`
}

// ProgressListInput is the input schema for the progress_list tool.
type ProgressListInput struct {
	Domain string `json:"domain" jsonschema:"progress domain: quest, station, or item_quantity"`
}

// ProgressListOutput is the output schema for the progress_list tool.
type ProgressListOutput struct {
	Records []RecordOutput `json:"records"`
	Count   int            `json:"count"`
}

// RecordOutput represents a single progress record.
type RecordOutput struct {
	Domain      string `json:"domain"`
	EntityID    string `json:"entity_id"`
	Value       int64  `json:"value"`
	Done        bool   `json:"done"`
	State       string `json:"state"`
	UpdatedAt   string `json:"updated_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "progress_get",
		Description: "Read one tracked progress record",
	}, s.handleProgressGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "progress_set",
		Description: "Record a progress change: quest completion, station construction, or an item quantity",
	}, s.handleProgressSet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report the progress engine's sync status",
	}, s.handleSyncStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "progress_list",
		Description: "List all tracked progress records in one domain",
	}, s.handleProgressList)
}

// handleProgressGet handles the progress_get tool invocation.
func (s *Server) handleProgressGet(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ProgressGetInput,
) (*mcp.CallToolResult, ProgressGetOutput, error) {
	d, err := parseDomain(input.Domain)
	if err != nil {
		return nil, ProgressGetOutput{}, err
	}

	rec, err := s.ports.Progress.Read(d, input.EntityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Never tracked is an answer, not a failure.
			return nil, ProgressGetOutput{Found: false}, nil
		}
		return nil, ProgressGetOutput{}, err
	}

	out := s.toRecordOutput(*rec)
	return nil, ProgressGetOutput{Found: true, Record: &out}, nil
}

// handleProgressSet handles the progress_set tool invocation.
func (s *Server) handleProgressSet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProgressSetInput,
) (*mcp.CallToolResult, ProgressSetOutput, error) {
	d, err := parseDomain(input.Domain)
	if err != nil {
		return nil, ProgressSetOutput{}, err
	}

	if err := s.ports.Progress.Mutate(ctx, d, input.EntityID, input.Value); err != nil {
		return nil, ProgressSetOutput{}, err
	}

	rec, err := s.ports.Progress.Read(d, input.EntityID)
	if err != nil {
		return nil, ProgressSetOutput{}, err
	}

	out := s.toRecordOutput(*rec)
	return nil, ProgressSetOutput{
		Record: out,
		Queued: out.State != string(domain.RecordClean),
	}, nil
}

// handleSyncStatus handles the sync_status tool invocation.
func (s *Server) handleSyncStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ SyncStatusInput,
) (*mcp.CallToolResult, SyncStatusOutput, error) {
	status := s.ports.Progress.Status()

	return nil, SyncStatusOutput{
		State:         string(status.State()),
		Online:        status.Online,
		Authenticated: status.Authenticated,
		Syncing:       status.Syncing,
		QueueDepth:    status.QueueDepth,
	}, nil
}

// handleProgressList handles the progress_list tool invocation.
func (s *Server) handleProgressList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ProgressListInput,
) (*mcp.CallToolResult, ProgressListOutput, error) {
	d, err := parseDomain(input.Domain)
	if err != nil {
		return nil, ProgressListOutput{}, err
	}

	records, err := s.ports.Progress.ReadAll(d)
	if err != nil {
		return nil, ProgressListOutput{}, err
	}

	output := ProgressListOutput{
		Records: make([]RecordOutput, len(records)),
		Count:   len(records),
	}
	for i := range records {
		output.Records[i] = s.toRecordOutput(records[i])
	}

	return nil, output, nil
}

// toRecordOutput converts a domain record to its wire shape.
func (s *Server) toRecordOutput(rec domain.ProgressRecord) RecordOutput {
	out := RecordOutput{
		Domain:    rec.Domain.String(),
		EntityID:  rec.EntityID,
		Value:     rec.Value,
		Done:      rec.Done(),
		State:     string(s.ports.Progress.RecordState(rec.Domain, rec.EntityID)),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
	if rec.CompletedAt != nil {
		out.CompletedAt = rec.CompletedAt.Format(time.RFC3339)
	}
	return out
}

// parseDomain validates a wire domain name.
func parseDomain(name string) (domain.Domain, error) {
	d := domain.Domain(name)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown domain %q: expected quest, station, or item_quantity", name)
	}
	return d, nil
}
