package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "X-Idempotency-Key"

// StatusError は注文サービスが2xx以外を返したとき
type StatusError struct {
	StatusCode int
	Status     string // "Internal Server Error" など
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order api: %d %s", e.StatusCode, e.Status)
}

func (e *StatusError) StatusText() string {
	return e.Status
}

// Client は注文サービス（/orders）の HTTP クライアント。
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

var _ repo.OrderGateway = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) CreateOrder(ctx context.Context, payload model.CreateOrderPayload, key string) (model.OrderRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return model.OrderRecord{}, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return model.OrderRecord{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}

	var out model.OrderRecord
	if err := c.do(req, &out); err != nil {
		return model.OrderRecord{}, fmt.Errorf("create order: %w", err)
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.OrderRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out []model.OrderRecord
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if out == nil {
		out = []model.OrderRecord{}
	}
	return out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	c.log.Debug("order api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// 本文は捨てて接続を使い回す
		_, _ = io.Copy(io.Discard, res.Body)
		return &StatusError{StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
