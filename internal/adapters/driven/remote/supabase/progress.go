package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// RemoteStore implements the remote progress store on PostgREST tables.
// Rows are keyed (user_id, entity_id); row-level security scopes every
// query to the bearer identity.
type RemoteStore struct {
	client *Client
}

// Compile-time interface check.
var _ driven.RemoteStore = (*RemoteStore)(nil)

// NewRemoteStore creates a remote store over the given client.
func NewRemoteStore(client *Client) *RemoteStore {
	return &RemoteStore{client: client}
}

// FetchUserRecords returns the user's records for one domain.
func (s *RemoteStore) FetchUserRecords(ctx context.Context, userID string, d domain.Domain) ([]domain.ProgressRecord, error) {
	desc, err := domain.DescriptorFor(d)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("select", selectColumns(desc))
	query.Set("user_id", "eq."+userID)

	endpoint := s.client.baseURL + "/rest/v1/" + desc.TableName + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.do(ctx, req)
	if err != nil {
		return nil, err
	}
	body, err := checkResponse(resp)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding response: %v: %w", err, domain.ErrRemoteUnavailable)
	}

	records := make([]domain.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRow(row, desc)
		if err != nil {
			// A malformed row means this remote cannot be trusted as a
			// merge source right now; the caller retries later.
			return nil, fmt.Errorf("decoding row: %v: %w", err, domain.ErrRemoteUnavailable)
		}
		records = append(records, rec)
	}

	return records, nil
}

// UpsertRecords inserts or updates records keyed by (user, entity). Records
// may span domains; each domain's rows go to its own table.
func (s *RemoteStore) UpsertRecords(ctx context.Context, userID string, records []domain.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[domain.Domain][]domain.ProgressRecord)
	order := make([]domain.Domain, 0, len(domain.Descriptors()))
	for _, rec := range records {
		if _, ok := groups[rec.Domain]; !ok {
			order = append(order, rec.Domain)
		}
		groups[rec.Domain] = append(groups[rec.Domain], rec)
	}

	for _, d := range order {
		if err := s.upsertDomain(ctx, userID, d, groups[d]); err != nil {
			return err
		}
	}

	return nil
}

func (s *RemoteStore) upsertDomain(ctx context.Context, userID string, d domain.Domain, records []domain.ProgressRecord) error {
	desc, err := domain.DescriptorFor(d)
	if err != nil {
		return err
	}

	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, encodeRow(userID, rec, desc))
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}

	query := url.Values{}
	query.Set("on_conflict", "user_id,entity_id")

	endpoint := s.client.baseURL + "/rest/v1/" + desc.TableName + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := s.client.do(ctx, req)
	if err != nil {
		return err
	}
	_, err = checkResponse(resp)
	return err
}

// DeleteUserRecords removes all of the user's rows for one domain.
func (s *RemoteStore) DeleteUserRecords(ctx context.Context, userID string, d domain.Domain) error {
	desc, err := domain.DescriptorFor(d)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("user_id", "eq."+userID)

	endpoint := s.client.baseURL + "/rest/v1/" + desc.TableName + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.do(ctx, req)
	if err != nil {
		return err
	}
	_, err = checkResponse(resp)
	return err
}

// selectColumns lists the columns fetched for a domain. Toggle domains
// carry a completion timestamp; count domains do not have one.
func selectColumns(desc domain.Descriptor) string {
	cols := []string{"entity_id", desc.ValueColumn, "updated_at"}
	if desc.Kind == domain.ValueToggle {
		cols = append(cols, "completed_at")
	}
	return strings.Join(cols, ",")
}

// encodeRow converts a record into its table row. completed_at is written
// explicitly as null when a toggle is off: the merge-duplicates upsert
// keeps omitted columns, and a reopened quest must not keep its old
// completion stamp.
func encodeRow(userID string, rec domain.ProgressRecord, desc domain.Descriptor) map[string]any {
	row := map[string]any{
		"user_id":    userID,
		"entity_id":  rec.EntityID,
		"updated_at": rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	switch desc.Kind {
	case domain.ValueToggle:
		row[desc.ValueColumn] = rec.Done()
		if rec.CompletedAt != nil {
			row["completed_at"] = rec.CompletedAt.UTC().Format(time.RFC3339Nano)
		} else {
			row["completed_at"] = nil
		}
	default:
		row[desc.ValueColumn] = rec.Value
	}

	return row
}

// decodeRow converts a table row back into a record.
func decodeRow(row map[string]any, desc domain.Descriptor) (domain.ProgressRecord, error) {
	entityID, ok := row["entity_id"].(string)
	if !ok || entityID == "" {
		return domain.ProgressRecord{}, fmt.Errorf("row has no entity_id")
	}

	value, err := decodeValue(row[desc.ValueColumn], desc.Kind)
	if err != nil {
		return domain.ProgressRecord{}, fmt.Errorf("column %q: %w", desc.ValueColumn, err)
	}

	updatedAt, err := decodeTime(row["updated_at"])
	if err != nil {
		return domain.ProgressRecord{}, fmt.Errorf("column \"updated_at\": %w", err)
	}

	rec := domain.ProgressRecord{
		ID:        desc.Key(entityID),
		Domain:    desc.Name,
		EntityID:  entityID,
		Value:     value,
		UpdatedAt: updatedAt,
	}

	if desc.Kind == domain.ValueToggle {
		if raw, ok := row["completed_at"].(string); ok && raw != "" {
			completedAt, err := decodeTime(raw)
			if err != nil {
				return domain.ProgressRecord{}, fmt.Errorf("column \"completed_at\": %w", err)
			}
			rec.CompletedAt = &completedAt
		}
	}

	return rec, nil
}

func decodeValue(raw any, kind domain.ValueKind) (int64, error) {
	switch kind {
	case domain.ValueToggle:
		b, ok := raw.(bool)
		if !ok {
			return 0, fmt.Errorf("expected boolean, got %T", raw)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	default:
		// JSON numbers decode as float64.
		n, ok := raw.(float64)
		if !ok {
			return 0, fmt.Errorf("expected number, got %T", raw)
		}
		return int64(n), nil
	}
}

func decodeTime(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("expected timestamp, got %T", raw)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
