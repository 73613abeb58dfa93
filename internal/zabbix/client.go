// Package zabbix is a thin JSON-RPC 2.0 client for the Zabbix API plus the
// session manager that owns the authentication token.
package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Prometheus upstream call metrics.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpanel_zabbix_requests_total",
			Help: "Total number of Zabbix JSON-RPC calls by method and result.",
		},
		[]string{"method", "result"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netpanel_zabbix_request_duration_seconds",
			Help:    "Zabbix JSON-RPC call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// Client performs JSON-RPC calls against a single Zabbix API endpoint.
// It is safe for concurrent use.
type Client struct {
	url        string
	httpClient *http.Client
	bearerAuth bool
	nextID     atomic.Int64
	logger     *zap.Logger
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	Auth    string `json:"auth,omitempty"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *APIError       `json:"error"`
	ID      int64           `json:"id"`
}

// NewClient creates a Client with a keep-alive connection pool capped at
// cfg.MaxConns connections per host.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = cfg.MaxConns
	transport.MaxIdleConnsPerHost = cfg.MaxConns
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
		//nolint:gosec // G402: Zabbix frontends commonly run with self-signed certs; opt-in only.
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		bearerAuth: cfg.BearerAuth,
		logger:     logger,
	}
}

// Call invokes method with params. When auth is non-empty it is attached to
// the request. A non-null error member is returned as *APIError. The result
// member is decoded into result when result is non-nil.
func (c *Client) Call(ctx context.Context, method string, params any, auth string, result any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			c.logger.Debug("zabbix call failed",
				zap.String("method", method),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
		requestsTotal.WithLabelValues(method, outcome).Inc()
		requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}
	if !c.bearerAuth {
		req.Auth = auth
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json-rpc")
	httpReq.Header.Set("Accept", "application/json")
	if c.bearerAuth && auth != "" {
		httpReq.Header.Set("Authorization", "Bearer "+auth)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("zabbix %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	if resp.StatusCode >= 400 {
		snippet := body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return fmt.Errorf("zabbix %s returned HTTP %d: %s", method, resp.StatusCode, string(snippet))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}
