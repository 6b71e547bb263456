// Package ordersapi is a thin typed client for the orders service under test.
//
// The client deliberately does not judge responses: a delivered non-2xx
// response is returned as a normal Response, never as an error. Only
// transport-level failures (connection refused, timeout, unreadable body)
// produce errors, because the harness's job is to print whatever the service
// says, not to decide whether it was right.
package ordersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/orders-api/api-smoke/internal/config"
)

const userAgent = "orders-api-smoke/1.0"

// RequestIDHeader carries a fresh UUID on every request so operators can
// correlate a line of smoke output with the service's own logs.
const RequestIDHeader = "X-Request-ID"

// Client issues requests against a single orders service deployment.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ordersPath string
	tablePath  string
}

// Response is one delivered HTTP response, status and raw body, with no
// interpretation applied.
type Response struct {
	Status int
	Body   []byte
}

// NewClient builds a client from API configuration. A zero timeout leaves the
// http.Client unbounded, matching the process-default transport behavior.
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		ordersPath: cfg.OrdersPath,
		tablePath:  cfg.CreateTablePath,
	}
}

// CreateTable asks the service to provision its backing orders table.
func (c *Client) CreateTable(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.url(c.tablePath), nil)
}

// CreateOrder posts a new order.
func (c *Client) CreateOrder(ctx context.Context, p OrderPayload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling create payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.url(c.ordersPath), body)
}

// ListOrders fetches the full order collection.
func (c *Client) ListOrders(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.url(c.ordersPath), nil)
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.orderURL(orderID), nil)
}

// UpdateOrder posts new field values for an existing order. The payload's
// version token lets the service reject stale concurrent updates.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, p OrderPayload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling update payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.orderURL(orderID), body)
}

// DeleteOrder removes a single order by ID.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, c.orderURL(orderID), nil)
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) orderURL(orderID string) string {
	return c.baseURL + c.ordersPath + "/" + orderID
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		Status: resp.StatusCode,
		Body:   respBody,
	}, nil
}
