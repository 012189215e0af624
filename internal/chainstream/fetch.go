package chainstream

import (
	"context"
	"errors"
	"fmt"
)

// ErrBlockNotFound signals that the requested block number is not yet
// committed on the queried peer. It is not an error condition for the stream:
// the driver interprets it as end of the currently known chain.
var ErrBlockNotFound = errors.New("block not found")

// HTTPStatusError reports a non-200, non-404 response from a peer.
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Status)
}

// Fetcher retrieves the raw payload of a single block from a single peer.
//
// A nil error means the block was fetched and the payload is ready for
// decoding. Failures are classified on the error value:
//
//   - ErrBlockNotFound: the peer does not know the block yet
//   - *HTTPStatusError: the peer answered with an unexpected status
//   - anything else: a transport-level failure (refused, timeout, DNS, ...)
//
// Implementations must release the underlying network resource before
// returning, on every outcome.
type Fetcher interface {
	FetchBlock(ctx context.Context, peer Peer, number uint64) ([]byte, error)
}
