// Package httpnode implements node.Node over the node's REST API. Adapted
// from pkg/sdk/http's resty-based client: base URL setup, retry/backoff with
// 429 Retry-After handling, and github.com/pkg/errors wrapping of transport
// failures (see DESIGN.md).
package httpnode

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/algopulse/algoabi/internal/ratelimit"
	"github.com/algopulse/algoabi/node"
)

// defaultRequestsPerSecond bounds outbound requests to a single node
// connection; public nodes (e.g. AlgoNode) throttle well under this, so it
// only guards against a runaway local polling loop.
const defaultRequestsPerSecond = 10

// Client is a node.Node backed by a node's (or indexer's) REST API.
type Client struct {
	client  *resty.Client
	token   string
	limiter *ratelimit.TokenBucket
}

// New builds a Client against host (e.g. "https://testnet-api.algonode.cloud")
// with an optional API token sent as the conventional X-Algo-API-Token
// header.
func New(host, token string) *Client {
	host = strings.TrimSuffix(host, "/")

	client := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == 429 {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						return time.Duration(seconds) * time.Second, nil
					}
				}
				return 5 * time.Second, nil
			}
			return 0, nil
		})

	return &Client{
		client:  client,
		token:   token,
		limiter: ratelimit.NewTokenBucket(defaultRequestsPerSecond, defaultRequestsPerSecond),
	}
}

// WithRateLimit overrides the default outbound request throughput.
func (c *Client) WithRateLimit(capacity, perSecond int) *Client {
	c.limiter = ratelimit.NewTokenBucket(capacity, perSecond)
	return c
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	if c.limiter != nil {
		_ = c.limiter.Wait(ctx)
	}
	r := c.client.R().SetContext(ctx)
	if c.token != "" {
		r.SetHeader("X-Algo-API-Token", c.token)
	}
	r.SetHeader("Accept", "application/json")
	return r
}

type suggestedParamsResponse struct {
	FeePerByte      uint64 `json:"fee"`
	MinFee          uint64 `json:"min-fee"`
	LastRound       uint64 `json:"last-round"`
	GenesisHashB64  string `json:"genesis-hash"`
	GenesisID       string `json:"genesis-id"`
	ConsensusVersion string `json:"consensus-version"`
}

// SuggestedParams fetches /v2/transactions/params and derives a validity
// window of the current round plus 1000 rounds, matching the chain's default
// suggested window.
func (c *Client) SuggestedParams(ctx context.Context) (node.SuggestedParams, error) {
	var resp suggestedParamsResponse
	r, err := c.newRequest(ctx).SetResult(&resp).Get("/v2/transactions/params")
	if err != nil {
		return node.SuggestedParams{}, errors.Wrap(err, "httpnode: fetching suggested params")
	}
	if r.IsError() {
		return node.SuggestedParams{}, errors.Errorf("httpnode: suggested params request failed: %s", r.Status())
	}
	hash, err := base64.StdEncoding.DecodeString(resp.GenesisHashB64)
	if err != nil {
		return node.SuggestedParams{}, errors.Wrap(err, "httpnode: decoding genesis hash")
	}
	if len(hash) != 32 {
		return node.SuggestedParams{}, errors.Errorf("httpnode: genesis hash is %d bytes, want 32", len(hash))
	}
	var gh [32]byte
	copy(gh[:], hash)
	return node.SuggestedParams{
		FeePerByte:  resp.FeePerByte,
		MinFee:      resp.MinFee,
		FirstValid:  resp.LastRound + 1,
		LastValid:   resp.LastRound + 1001,
		GenesisHash: gh,
		GenesisID:   resp.GenesisID,
	}, nil
}

type broadcastResponse struct {
	TxID string `json:"txId"`
}

// BroadcastRaw posts the raw signed-group payload to /v2/transactions.
func (c *Client) BroadcastRaw(ctx context.Context, raw []byte) (string, error) {
	var resp broadcastResponse
	r, err := c.newRequest(ctx).
		SetHeader("Content-Type", "application/x-binary").
		SetBody(raw).
		SetResult(&resp).
		Post("/v2/transactions")
	if err != nil {
		return "", errors.Wrap(err, "httpnode: broadcasting transaction group")
	}
	if r.IsError() {
		return "", errors.Errorf("httpnode: broadcast rejected: %s: %s", r.Status(), string(r.Body()))
	}
	return resp.TxID, nil
}

type pendingTransactionResponse struct {
	ConfirmedRound uint64   `json:"confirmed-round"`
	Logs           []string `json:"logs"`
	PoolError      string   `json:"pool-error"`
	InnerTxns      []struct {
		ConfirmedRound uint64   `json:"confirmed-round"`
		Logs           []string `json:"logs"`
	} `json:"inner-txns"`
}

// PendingTransaction fetches /v2/transactions/pending/{txid}.
func (c *Client) PendingTransaction(ctx context.Context, txID string) (node.PendingTransactionInfo, error) {
	var resp pendingTransactionResponse
	r, err := c.newRequest(ctx).SetResult(&resp).Get("/v2/transactions/pending/" + txID)
	if err != nil {
		return node.PendingTransactionInfo{}, errors.Wrap(err, "httpnode: fetching pending transaction")
	}
	if r.IsError() {
		return node.PendingTransactionInfo{}, errors.Errorf("httpnode: pending transaction lookup failed: %s", r.Status())
	}
	return decodePendingResponse(resp), nil
}

func decodePendingResponse(resp pendingTransactionResponse) node.PendingTransactionInfo {
	logs := make([][]byte, 0, len(resp.Logs))
	for _, l := range resp.Logs {
		if decoded, err := base64.StdEncoding.DecodeString(l); err == nil {
			logs = append(logs, decoded)
		}
	}
	inner := make([]node.PendingTransactionInfo, 0, len(resp.InnerTxns))
	for _, it := range resp.InnerTxns {
		innerLogs := make([][]byte, 0, len(it.Logs))
		for _, l := range it.Logs {
			if decoded, err := base64.StdEncoding.DecodeString(l); err == nil {
				innerLogs = append(innerLogs, decoded)
			}
		}
		inner = append(inner, node.PendingTransactionInfo{ConfirmedRound: it.ConfirmedRound, Logs: innerLogs})
	}
	return node.PendingTransactionInfo{
		ConfirmedRound: resp.ConfirmedRound,
		Logs:           logs,
		InnerTxns:      inner,
		PoolError:      resp.PoolError,
	}
}

// WaitAfterBlock long-polls /v2/status/wait-for-block-after/{round}, the
// node's native blocking wait, rather than sleeping client-side.
func (c *Client) WaitAfterBlock(ctx context.Context, round uint64) error {
	r, err := c.newRequest(ctx).Get(fmt.Sprintf("/v2/status/wait-for-block-after/%d", round))
	if err != nil {
		return errors.Wrap(err, "httpnode: waiting for block")
	}
	if r.IsError() {
		return errors.Errorf("httpnode: wait-for-block failed: %s", r.Status())
	}
	return nil
}

