// Package api is the typed HTTP client for the timecard server, shared by
// the terminal client and the workday monitor.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) FullState(ctx context.Context) (*model.FullState, error) {
	var state model.FullState
	if err := c.do(ctx, http.MethodGet, "/full_state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) CreateEntry(ctx context.Context, day model.Day) (*model.DayEntries, error) {
	var bucket model.DayEntries
	path := fmt.Sprintf("/time_entries/day/%d", int(day))
	if err := c.do(ctx, http.MethodPost, path, nil, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (c *Client) Play(ctx context.Context, id int64) (*model.DayEntries, error) {
	var bucket model.DayEntries
	path := fmt.Sprintf("/time_entries/%d/play", id)
	if err := c.do(ctx, http.MethodPut, path, nil, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (c *Client) Pause(ctx context.Context, id int64) (*model.DayEntries, error) {
	var bucket model.DayEntries
	path := fmt.Sprintf("/time_entries/%d/pause", id)
	if err := c.do(ctx, http.MethodPut, path, nil, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (c *Client) AddTime(ctx context.Context, id, deltaMillis int64) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	path := fmt.Sprintf("/time_entries/%d/add_time/%d", id, deltaMillis)
	if err := c.do(ctx, http.MethodPut, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) SetTime(ctx context.Context, id, millis int64) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	path := fmt.Sprintf("/time_entries/%d/time/%d", id, millis)
	if err := c.do(ctx, http.MethodPut, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, note string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	path := fmt.Sprintf("/time_entries/%d/note", id)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"note": note}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateChargeCode(ctx context.Context, id, codeID int64) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	path := fmt.Sprintf("/time_entries/%d/charge_code/%d", id, codeID)
	if err := c.do(ctx, http.MethodPut, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpsertEntry writes a complete entry, the single-entry replay operation.
func (c *Client) UpsertEntry(ctx context.Context, entry model.TimeEntry) (*model.DayEntries, error) {
	var bucket model.DayEntries
	if err := c.do(ctx, http.MethodPut, "/time_entries/update", entry, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// Replay applies a whole snapshot diff in one server-side transaction and
// returns the authoritative resulting state.
func (c *Client) Replay(ctx context.Context, diff model.Diff) (*model.FullState, error) {
	var state model.FullState
	if err := c.do(ctx, http.MethodPost, "/time_entries/replay", diff, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id int64) (*model.DayEntries, error) {
	var bucket model.DayEntries
	path := fmt.Sprintf("/time_entries/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (c *Client) Costpoint(ctx context.Context) ([]rollup.CostpointEntry, error) {
	var rows []rollup.CostpointEntry
	if err := c.do(ctx, http.MethodGet, "/time_entries/costpoint", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Cleanup(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/cleanup", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
