package chainstream

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoPeers is returned when constructing a Rotator with an empty peer list.
// An empty list is a configuration error and is always fatal at startup.
var ErrNoPeers = errors.New("peer list is empty")

// Peer is a single replicated node endpoint. Immutable once constructed.
type Peer struct {
	Host string
	Port int
}

// String formats the peer as "host:port".
func (p Peer) String() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Rotator cycles through a fixed, ordered peer list. The cursor advances by
// exactly one position on every call to Next, regardless of whether the
// previous attempt against the returned peer succeeded. This spreads load
// evenly and keeps a failing peer from being retried twice in a row when more
// than one peer is configured.
//
// Rotator is not safe for concurrent use; the stream driver is the only
// caller and runs on a single goroutine.
type Rotator struct {
	peers  []Peer
	cursor int
}

// NewRotator builds a Rotator over the given peers, preserving their order.
// It returns ErrNoPeers if the list is empty.
func NewRotator(peers []Peer) (*Rotator, error) {
	if len(peers) == 0 {
		return nil, ErrNoPeers
	}

	return &Rotator{peers: slices.Clone(peers)}, nil
}

// Next returns the peer under the cursor and advances the cursor, wrapping
// circularly. It never fails.
func (r *Rotator) Next() Peer {
	peer := r.peers[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.peers)
	return peer
}

// Len reports the number of peers in the rotation.
func (r *Rotator) Len() int {
	return len(r.peers)
}
