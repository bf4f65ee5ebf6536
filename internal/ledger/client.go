package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
)

// Config addresses the algod node the gateway submits to, configured via
// ALGOD_SERVER/ALGOD_TOKEN/ALGOD_PORT environment variables.
type Config struct {
	Server string
	Token  string
	Port   int
	AppID  uint64
}

// Client is the coordinator's HTTP-based algod wrapper: one struct holding
// the transport and config, one method per call, connectivity verified at
// construction time.
type Client struct {
	http   *http.Client
	cfg    Config
	base   string
}

// NewClient dials the algod node and verifies it's reachable before
// returning.
func NewClient(cfg Config) (*Client, error) {
	base := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	log.Printf("Connecting to algod at %s...", base)

	c := &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		cfg:  cfg,
		base: base,
	}

	round, err := c.currentRound(context.Background())
	if err != nil {
		return nil, fmt.Errorf("ledger: algod unreachable: %w", err)
	}
	log.Printf("Connected to algod. Last round: %d", round)
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Algo-API-Token", c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("algod %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) currentRound(ctx context.Context) (uint64, error) {
	var status struct {
		LastRound uint64 `json:"last-round"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/status", nil, &status); err != nil {
		return 0, err
	}
	return status.LastRound, nil
}

type submitResponse struct {
	TxID string   `json:"txId"`
	Logs [][]byte `json:"logs"`
}

func (c *Client) submit(ctx context.Context, sg *signedGroup) (*submitResponse, error) {
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/v2/transactions", sg, &resp); err != nil {
		return nil, apperr.Ledger("submission rejected by node", err)
	}
	return &resp, nil
}

// maxConfirmRounds bounds the confirmation poller: roughly 10 rounds, then
// surface a timeout without rolling back off-chain state.
const maxConfirmRounds = 10

// Confirm polls /v2/transactions/pending/{txid} until the transaction lands
// in a block or the retry budget is exhausted.
func (c *Client) Confirm(ctx context.Context, txID string) (uint64, error) {
	for round := 0; round < maxConfirmRounds; round++ {
		var pending struct {
			ConfirmedRound uint64 `json:"confirmed-round"`
			PoolError      string `json:"pool-error"`
		}
		err := c.do(ctx, http.MethodGet, "/v2/transactions/pending/"+txID, nil, &pending)
		if err == nil && pending.ConfirmedRound > 0 {
			return pending.ConfirmedRound, nil
		}
		if err == nil && pending.PoolError != "" {
			return 0, apperr.Ledger("transaction rejected by pool: "+pending.PoolError, nil)
		}
		select {
		case <-ctx.Done():
			return 0, apperr.Ledger("confirmation wait cancelled", ctx.Err())
		case <-time.After(900 * time.Millisecond):
		}
	}
	return 0, apperr.Ledger(fmt.Sprintf("confirmation timed out after %d rounds", maxConfirmRounds), nil)
}

func (c *Client) ReadBox(ctx context.Context, key []byte) (*BoxValue, error) {
	name := base64.StdEncoding.EncodeToString(key)
	var box struct {
		Name  []byte `json:"name"`
		Value []byte `json:"value"`
	}
	path := fmt.Sprintf("/v2/applications/%d/box?name=b64:%s", c.cfg.AppID, name)
	if err := c.do(ctx, http.MethodGet, path, nil, &box); err != nil {
		return nil, apperr.Ledger("box read failed", err)
	}
	return &BoxValue{Key: key, Value: box.Value}, nil
}

func (c *Client) AppBalance(ctx context.Context) (uint64, error) {
	var acct struct {
		AmountMicro uint64 `json:"amount"`
	}
	path := fmt.Sprintf("/v2/accounts/%s", AppAddress(c.cfg.AppID))
	if err := c.do(ctx, http.MethodGet, path, nil, &acct); err != nil {
		return 0, apperr.Ledger("app balance read failed", err)
	}
	return acct.AmountMicro, nil
}
