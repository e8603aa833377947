package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rooterworks/rmetrack/internal/workorder"
)

const workOrdersPath = "/work-orders-today/"

// Client is the outbound REST client for the company's work-order backend.
// It is the single implementation of the repository interfaces the services
// consume, so tests never need a real backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) error {
	if c.baseURL == "" {
		return fmt.Errorf("missing backend base URL")
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return readErr
	}

	// Surface the backend error body so callers can see validation details.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(b) > 0 {
			return fmt.Errorf("backend error: status=%d body=%s", resp.StatusCode, string(b))
		}

		return fmt.Errorf("backend error: status=%d", resp.StatusCode)
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return fmt.Errorf("decode backend response: %w body=%s", err, string(b))
		}
	}

	return nil
}

// ListWorkOrders fetches the full collection. The backend has shipped both a
// bare array and a {"data": [...]} wrapper; accept either.
func (c *Client) ListWorkOrders(ctx context.Context) ([]workorder.WorkOrder, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, workOrdersPath, nil, &raw); err != nil {
		return nil, err
	}

	var records []workorder.WorkOrder
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Data []workorder.WorkOrder `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode work orders: %w", err)
	}

	return wrapped.Data, nil
}

// PatchWorkOrder issues a partial-field update for one record.
func (c *Client) PatchWorkOrder(ctx context.Context, id string, fields map[string]any) error {
	if err := c.doJSON(ctx, http.MethodPatch, workOrdersPath+id+"/", fields, nil); err != nil {
		return fmt.Errorf("patching work order %s: %w", id, err)
	}

	return nil
}

// DeleteWorkOrder permanently erases one record.
func (c *Client) DeleteWorkOrder(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, workOrdersPath+id+"/", nil, nil); err != nil {
		return fmt.Errorf("deleting work order %s: %w", id, err)
	}

	return nil
}
