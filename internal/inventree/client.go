// Package inventree provides functionality for interacting with the InvenTree
// order API.
package inventree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielolaszy/orderboard/internal/config"
	"github.com/danielolaszy/orderboard/internal/logging"
	"github.com/danielolaszy/orderboard/pkg/models"
	"golang.org/x/oauth2"
)

// endpoints are the list endpoints of each order type, relative to /api/.
var endpoints = map[models.OrderType]string{
	models.OrderTypeBuild:    "build/",
	models.OrderTypePurchase: "order/po/",
	models.OrderTypeSales:    "order/so/",
}

// detailPaths are the web UI pages of each order type.
var detailPaths = map[models.OrderType]string{
	models.OrderTypeBuild:    "/web/manufacturing/build-order/",
	models.OrderTypePurchase: "/web/purchasing/purchase-order/",
	models.OrderTypeSales:    "/web/sales/sales-order/",
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// Client encapsulates the authenticated HTTP client of one InvenTree server.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// NewClient creates a client for the server in cfg. Every request carries
// "Authorization: Token <token>".
func NewClient(cfg config.InvenTreeConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("inventree token not found in configuration")
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid inventree url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid inventree url %q: scheme and host are required", cfg.URL)
	}

	logging.Info("inventree configuration",
		"url", baseURL.String(),
		"token", logging.MaskSensitive(cfg.Token),
		"timeout", cfg.Timeout)

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token, TokenType: "Token"},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = cfg.Timeout

	return &Client{baseURL: baseURL, client: tc}, nil
}

// Ping checks the token against the server and returns the username it
// belongs to.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var user struct {
		Username string `json:"username"`
	}

	body, err := c.do(ctx, http.MethodGet, c.apiURL("user/me/", nil), nil)
	if err != nil {
		return "", fmt.Errorf("error testing inventree token: %w", err)
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("failed to decode user response: %w", err)
	}

	logging.Info("inventree authentication successful", "username", user.Username)
	return user.Username, nil
}

// ListOrders fetches one page of at most limit orders of the given type. The
// server may answer with a bare array or a paginated {"results": [...]}
// envelope; only the first page is read.
func (c *Client) ListOrders(ctx context.Context, orderType models.OrderType, limit int) ([]map[string]any, error) {
	endpoint, ok := endpoints[orderType]
	if !ok {
		return nil, fmt.Errorf("unknown order type %q", orderType)
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	logging.Debug("listing orders", "order_type", orderType, "limit", limit)

	body, err := c.do(ctx, http.MethodGet, c.apiURL(endpoint, query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s orders: %w", orderType, err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s orders: %w", orderType, err)
	}

	logging.Debug("listed orders", "order_type", orderType, "count", len(records))
	return records, nil
}

// UpdateOrderStatus partially updates one order with a new status code and
// label.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderType models.OrderType, id string, payload models.StatusPayload) error {
	endpoint, ok := endpoints[orderType]
	if !ok {
		return fmt.Errorf("unknown order type %q", orderType)
	}
	if id == "" {
		return fmt.Errorf("cannot update %s order without an identifier", orderType)
	}

	data, err := json.Marshal(map[string]any{
		"status":      payload.Code,
		"status_text": payload.Label,
	})
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	target := c.apiURL(endpoint+url.PathEscape(id)+"/", nil)
	if _, err := c.do(ctx, http.MethodPatch, target, data); err != nil {
		return fmt.Errorf("failed to update %s order %s: %w", orderType, id, err)
	}

	logging.Debug("updated order status",
		"order_type", orderType,
		"id", id,
		"status", payload.Code,
		"status_text", payload.Label)
	return nil
}

// DetailURL returns the web page of an order, absolute or as a path. It
// returns "" when the order cannot be linked.
func (c *Client) DetailURL(orderType models.OrderType, id string, absolute bool) string {
	prefix, ok := detailPaths[orderType]
	if !ok || id == "" {
		return ""
	}

	path := prefix + url.PathEscape(id)
	if !absolute {
		return path
	}
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) apiURL(endpoint string, query url.Values) string {
	u := c.baseURL.JoinPath("api", endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Error("inventree request failed",
			"method", method,
			"url", target,
			"status_code", resp.StatusCode)
		return nil, &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// decodeRecords accepts a bare array or a {"results": [...]} envelope.
// Numbers are kept as json.Number so identifiers round-trip unchanged, and
// entries that are not objects are skipped.
func decodeRecords(data []byte) ([]map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}

	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["results"].([]any)
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records, nil
}
