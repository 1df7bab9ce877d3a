// Package hosted is the HTTP client for the hosted row store's REST API.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripboard/internal/rows"
)

// Config carries the connection settings for the hosted store.
type Config struct {
	Endpoint   string // API root, e.g. https://cloud.example.io/v1
	ProjectID  string
	APIKey     string
	DatabaseID string

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
	hc  *http.Client
}

// Ensure interface conformance
var (
	_ rows.Lister  = (*Client)(nil)
	_ rows.Getter  = (*Client)(nil)
	_ rows.Creator = (*Client)(nil)
	_ rows.Updater = (*Client)(nil)
)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("missing row store endpoint")
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("missing row store project ID")
	}
	if strings.TrimSpace(cfg.DatabaseID) == "" {
		return nil, errors.New("missing row store database ID")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, hc: hc}, nil
}

// List fetches rows from a table, forwarding query options in the store's
// JSON query encoding.
func (c *Client) List(ctx context.Context, table string, queries ...rows.Query) (rows.RowList, error) {
	u := c.rowsURL(table)
	if len(queries) > 0 {
		vals := url.Values{}
		for _, q := range queries {
			enc, err := encodeQuery(q)
			if err != nil {
				return rows.RowList{}, err
			}
			vals.Add("queries[]", enc)
		}
		u += "?" + vals.Encode()
	}

	var envelope struct {
		Total int        `json:"total"`
		Rows  []rows.Row `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &envelope); err != nil {
		return rows.RowList{}, fmt.Errorf("list %s: %w", table, err)
	}
	return rows.RowList{Rows: envelope.Rows, Total: envelope.Total}, nil
}

func (c *Client) Get(ctx context.Context, table, id string) (rows.Row, error) {
	var row rows.Row
	if err := c.do(ctx, http.MethodGet, c.rowsURL(table)+"/"+url.PathEscape(id), nil, &row); err != nil {
		return rows.Row{}, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	return row, nil
}

func (c *Client) Create(ctx context.Context, table string, data map[string]any) (rows.Row, error) {
	body := map[string]any{
		"rowId": "unique()", // store assigns the identifier
		"data":  data,
	}
	var row rows.Row
	if err := c.do(ctx, http.MethodPost, c.rowsURL(table), body, &row); err != nil {
		return rows.Row{}, fmt.Errorf("create in %s: %w", table, err)
	}
	return row, nil
}

func (c *Client) Update(ctx context.Context, table, id string, data map[string]any) (rows.Row, error) {
	body := map[string]any{"data": data}
	var row rows.Row
	if err := c.do(ctx, http.MethodPatch, c.rowsURL(table)+"/"+url.PathEscape(id), body, &row); err != nil {
		return rows.Row{}, fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	return row, nil
}

func (c *Client) rowsURL(table string) string {
	return fmt.Sprintf("%s/tablesdb/%s/tables/%s/rows",
		strings.TrimRight(c.cfg.Endpoint, "/"),
		url.PathEscape(c.cfg.DatabaseID),
		url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Appwrite-Project", c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Appwrite-Key", c.cfg.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return rows.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	if json.Unmarshal(b, &payload) == nil && payload.Message != "" {
		return fmt.Errorf("row store: %s (status %d)", payload.Message, resp.StatusCode)
	}
	return fmt.Errorf("row store: unexpected status %d", resp.StatusCode)
}

func encodeQuery(q rows.Query) (string, error) {
	enc := struct {
		Method    string `json:"method"`
		Attribute string `json:"attribute,omitempty"`
		Values    []any  `json:"values,omitempty"`
	}{
		Method: string(q.Op),
		Values: q.Values,
	}
	if q.Op == rows.OpEqual {
		enc.Attribute = q.Attribute
	}
	b, err := json.Marshal(enc)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	return string(b), nil
}
