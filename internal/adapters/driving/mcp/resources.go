package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Tracklight resources.
	uriScheme = "progress://"
)

// toggleSummary counts a toggle domain's records.
type toggleSummary struct {
	Tracked int `json:"tracked"`
	Done    int `json:"done"`
}

// itemSummary counts the item-quantity domain's records.
type itemSummary struct {
	Tracked    int   `json:"tracked"`
	TotalUnits int64 `json:"total_units"`
}

// syncSummary is the sync portion of the summary resource.
type syncSummary struct {
	State         string `json:"state"`
	Online        bool   `json:"online"`
	Authenticated bool   `json:"authenticated"`
	QueueDepth    int    `json:"queue_depth"`
}

// progressSummary is the wire shape of the progress summary resource.
type progressSummary struct {
	Quests   toggleSummary `json:"quests"`
	Stations toggleSummary `json:"stations"`
	Items    itemSummary   `json:"items"`
	Sync     syncSummary   `json:"sync"`
	Account  string        `json:"account,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "summary",
		Name:        "progress-summary",
		Description: "Aggregate progress counts and sync status",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// handleSummaryResource returns aggregate progress counts and sync status.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var summary progressSummary

	quests, err := s.ports.Progress.ReadAll(domain.DomainQuest)
	if err != nil {
		return nil, fmt.Errorf("listing quests: %w", err)
	}
	summary.Quests = summariseToggles(quests)

	stations, err := s.ports.Progress.ReadAll(domain.DomainStation)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	summary.Stations = summariseToggles(stations)

	items, err := s.ports.Progress.ReadAll(domain.DomainItemQuantity)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	summary.Items.Tracked = len(items)
	for i := range items {
		summary.Items.TotalUnits += items[i].Value
	}

	status := s.ports.Progress.Status()
	summary.Sync = syncSummary{
		State:         string(status.State()),
		Online:        status.Online,
		Authenticated: status.Authenticated,
		QueueDepth:    status.QueueDepth,
	}

	if s.ports.Session != nil {
		if sess, err := s.ports.Session.Current(ctx); err == nil {
			summary.Account = sess.Email
			if summary.Account == "" {
				summary.Account = sess.UserID
			}
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling summary: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// summariseToggles counts tracked and done records.
func summariseToggles(records []domain.ProgressRecord) toggleSummary {
	out := toggleSummary{Tracked: len(records)}
	for i := range records {
		if records[i].Done() {
			out.Done++
		}
	}
	return out
}
