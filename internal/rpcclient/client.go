// Package rpcclient is the one hand-rolled-on-stdlib component of this
// module (see SPEC_FULL.md §4.11): a JSON-RPC-over-HTTP transport for the
// three ledger node methods the indexer calls (account_tx, account_offers,
// tx), decoding responses into xrplwire's typed wire structs.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/xrplwire"
)

// DefaultTimeout is the per-RPC timeout mandated by spec §5/§7.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries is the retry budget per paginated request (spec §4.7/§7).
const DefaultMaxRetries = 3

// Client is a JSON-RPC 1.0-style client ("method"+"params" POST body,
// single-element params array) against a ledger node's HTTP RPC endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client (tests inject one
// pointed at an httptest.Server).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New builds a Client against the given node URL.
func New(url string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type rpcError struct {
	Error        string `json:"error"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

// call performs one JSON-RPC request with exponential backoff retry, per
// spec §4.7/§7 (3 retries, 30s per-attempt timeout).
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{Method: method, Params: []interface{}{params}})
	if err != nil {
		return fmt.Errorf("rpcclient: encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.doOnce(ctx, method, body, out); err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn("rpc call failed, retrying",
					zap.String("method", method), zap.Int("attempt", attempt), zap.Error(err))
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("rpcclient: %s failed after %d retries: %w", method, c.maxRetries, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s: %s", resp.StatusCode, method, string(respBody))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	var rpcErr rpcError
	if err := json.Unmarshal(envelope.Result, &rpcErr); err == nil && rpcErr.Error != "" {
		return fmt.Errorf("node rpc error %d: %s", rpcErr.ErrorCode, rpcErr.ErrorMessage)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decoding result for %s: %w", method, err)
	}
	return nil
}

// AccountTxRequest mirrors the account_tx RPC method's params object
// (spec §6).
type AccountTxRequest struct {
	Account        string                     `json:"account"`
	LedgerIndexMin int64                      `json:"ledger_index_min,omitempty"`
	Forward        bool                       `json:"forward"`
	Limit          int                        `json:"limit,omitempty"`
	Marker         *xrplwire.AccountTxMarker  `json:"marker,omitempty"`
}

// AccountTx calls account_tx.
func (c *Client) AccountTx(ctx context.Context, req AccountTxRequest) (*xrplwire.AccountTxResult, error) {
	var result xrplwire.AccountTxResult
	if err := c.call(ctx, "account_tx", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AccountOffers calls account_offers.
func (c *Client) AccountOffers(ctx context.Context, account string) (*xrplwire.AccountOffersResult, error) {
	var result xrplwire.AccountOffersResult
	params := struct {
		Account string `json:"account"`
	}{Account: account}
	if err := c.call(ctx, "account_offers", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Tx calls tx(hash), used only by the reconciler for audit (spec §6).
func (c *Client) Tx(ctx context.Context, hash string) (*xrplwire.Transaction, error) {
	var result xrplwire.Transaction
	params := struct {
		Transaction string `json:"transaction"`
	}{Transaction: hash}
	if err := c.call(ctx, "tx", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
