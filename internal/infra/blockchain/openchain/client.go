// Package openchain implements the chainstream Fetcher and Decoder contracts
// against the REST API exposed by openchain validating peers.
package openchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gabapcia/chaintail/internal/chainstream"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	blockPathFormat = "http://%s/chain/blocks/%d"
	chainPathFormat = "http://%s/chain"
)

// client talks to openchain peers over their REST API.
type client struct {
	conn *retryablehttp.Client
}

var (
	_ chainstream.Fetcher = (*client)(nil)
	_ chainstream.Decoder = (*client)(nil)
)

// NewClient creates an openchain REST client on top of the given HTTP
// connection. The connection should have transport-level retries disabled
// when used for block fetching, since the stream's rotation policy owns the
// retry budget.
func NewClient(conn *retryablehttp.Client) *client {
	return &client{
		conn: conn,
	}
}

// FetchBlock implements the chainstream.Fetcher contract. It performs a
// single GET against the peer's block endpoint and classifies the outcome:
// 200 returns the raw body, 404 maps to chainstream.ErrBlockNotFound, any
// other status maps to *chainstream.HTTPStatusError, and transport failures
// are returned wrapped. The response body is always closed.
func (c *client) FetchBlock(ctx context.Context, peer chainstream.Peer, number uint64) ([]byte, error) {
	url := fmt.Sprintf(blockPathFormat, peer, number)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build block request: %w", err)
	}

	resp, err := c.conn.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch block %d: %w", number, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read block %d body: %w", number, err)
		}
		return body, nil

	case http.StatusNotFound:
		return nil, chainstream.ErrBlockNotFound

	default:
		return nil, &chainstream.HTTPStatusError{Status: resp.StatusCode}
	}
}

// chainInfoResponse is the wire shape of the peer's chain summary.
type chainInfoResponse struct {
	Height uint64 `json:"height"`
}

// ChainHeight returns the number of blocks currently committed on the given
// peer.
func (c *client) ChainHeight(ctx context.Context, peer chainstream.Peer) (uint64, error) {
	url := fmt.Sprintf(chainPathFormat, peer)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build chain request: %w", err)
	}

	resp, err := c.conn.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch chain info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &chainstream.HTTPStatusError{Status: resp.StatusCode}
	}

	var info chainInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, fmt.Errorf("decode chain info: %w", err)
	}

	return info.Height, nil
}
