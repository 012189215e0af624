// Package membership resolves the peer network descriptor from a bootstrap
// peer's REST API. It is the external peer-source collaborator: the stream
// itself never looks up peers, it only consumes the resolved list.
package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gabapcia/chaintail/internal/chainstream"
	"github.com/gabapcia/chaintail/internal/pkg/validator"

	"github.com/hashicorp/go-retryablehttp"
)

// Mode identifies the consensus mode the peer network runs under.
type Mode string

const (
	// ModeReplicated allows polling any peer in the network; their views
	// converge and the stream rotates across all of them.
	ModeReplicated Mode = "replicated"

	// ModeSolo is the single-writer-ordering mode: peers' local views are
	// not guaranteed consistent, so only the first peer may be polled.
	ModeSolo Mode = "solo"
)

// Descriptor is the resolved peer network description. In solo mode Peers
// holds exactly the one peer that may be safely polled.
type Descriptor struct {
	Peers     []chainstream.Peer
	Consensus Mode
}

const peersPathFormat = "http://%s/network/peers"

type (
	// peerResponse is the wire shape of one network peer entry.
	peerResponse struct {
		Host string `json:"host" validate:"required"`
		Port int    `json:"port" validate:"required,min=1,max=65535"`
	}

	// networkResponse is the wire shape of the peer network descriptor.
	networkResponse struct {
		Peers     []peerResponse `json:"peers" validate:"required,min=1,dive"`
		Consensus Mode           `json:"consensus" validate:"required,oneof=replicated solo"`
	}
)

// client resolves peer descriptors over HTTP.
type client struct {
	conn *retryablehttp.Client
}

// NewClient creates a membership client on top of the given HTTP connection.
// Discovery talks to a single bootstrap endpoint, so transport-level retries
// on the connection are fine here.
func NewClient(conn *retryablehttp.Client) *client {
	return &client{
		conn: conn,
	}
}

// Discover fetches and validates the peer descriptor from the bootstrap
// address ("host:port"). An empty or invalid descriptor is a configuration
// error and fails the lookup. In solo mode the returned descriptor is
// truncated to the first peer.
func (c *client) Discover(ctx context.Context, address string) (Descriptor, error) {
	url := fmt.Sprintf(peersPathFormat, address)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Descriptor{}, fmt.Errorf("build peer discovery request: %w", err)
	}

	resp, err := c.conn.Do(req)
	if err != nil {
		return Descriptor{}, fmt.Errorf("discover peers from %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Descriptor{}, fmt.Errorf("discover peers from %s: unexpected http status %d", address, resp.StatusCode)
	}

	var network networkResponse
	if err := json.NewDecoder(resp.Body).Decode(&network); err != nil {
		return Descriptor{}, fmt.Errorf("decode peer descriptor: %w", err)
	}

	if err := validator.Validate(network); err != nil {
		return Descriptor{}, fmt.Errorf("invalid peer descriptor: %w", err)
	}

	if network.Consensus == ModeSolo {
		network.Peers = network.Peers[:1]
	}

	peers := make([]chainstream.Peer, len(network.Peers))
	for i, p := range network.Peers {
		peers[i] = chainstream.Peer{Host: p.Host, Port: p.Port}
	}

	return Descriptor{Peers: peers, Consensus: network.Consensus}, nil
}
