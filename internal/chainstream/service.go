// Package chainstream streams a ledger's block sequence, fetched block by
// block from a rotating set of replicated peers, into an ordered append-only
// transaction log.
//
// The driver is a single logical thread: blocks are fetched sequentially,
// one at a time, and the only suspension point is the poll-interval wait in
// follow mode. Fetching, decoding, and emission are abstracted behind the
// Fetcher, Decoder, and Emitter interfaces so the control loop and its
// failure policies can be tested without any network dependency.
package chainstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/chaintail/internal/pkg/logger"
	"github.com/gabapcia/chaintail/internal/pkg/resilience/retry"

	"github.com/google/uuid"
)

// Service drives the fetch-retry-failover loop until the chain is exhausted
// (one-shot mode), the context is canceled, or a fatal failure occurs.
type Service interface {
	Run(ctx context.Context) error
}

type service struct {
	rotator *Rotator
	fetcher Fetcher
	decoder Decoder
	emitter Emitter

	retrier retry.Retry

	follow       bool
	pollInterval time.Duration
	force        bool
	retryBudget  int

	lastEmitted uint64
}

var _ Service = (*service)(nil)

type config struct {
	follow       bool
	pollInterval time.Duration
	force        bool
	retryBudget  int
}

// Option configures the stream driver.
type Option func(*config)

// WithFollow keeps the stream polling for new blocks after reaching the
// chain tip instead of exiting. A zero interval busy-polls the same block
// number with no delay between attempts.
func WithFollow(pollInterval time.Duration) Option {
	return func(c *config) {
		c.follow = true
		c.pollInterval = pollInterval
	}
}

// WithForce tolerates exhausted fetches and decode failures by skipping the
// affected block instead of terminating the stream.
func WithForce() Option {
	return func(c *config) {
		c.force = true
	}
}

// WithRetryBudget sets how many additional fetch attempts are made per block
// after the first one fails, each against the next peer in the rotation.
// A budget of 0 means try once, no retry. Default: 0.
func WithRetryBudget(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.retryBudget = n
		}
	}
}

// New builds a stream driver over the given rotation, fetcher, decoder, and
// emitter. Retries are immediate (zero delay): failing over to the next peer
// is the recovery mechanism, not waiting.
func New(rotator *Rotator, fetcher Fetcher, decoder Decoder, emitter Emitter, opts ...Option) *service {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		rotator: rotator,
		fetcher: fetcher,
		decoder: decoder,
		emitter: emitter,
		retrier: retry.New(
			retry.WithAttempts(uint(cfg.retryBudget) + 1),
			retry.WithDelay(0),
		),
		follow:       cfg.follow,
		pollInterval: cfg.pollInterval,
		force:        cfg.force,
		retryBudget:  cfg.retryBudget,
	}
}

// Run executes the stream loop starting at block 0. It returns nil on a
// clean end-of-chain exit in one-shot mode, the context error if canceled,
// or the terminal block failure when force mode is off.
func (s *service) Run(ctx context.Context) error {
	streamID := uuid.NewString()
	logger.Info(ctx, "starting chain stream",
		"stream.id", streamID,
		"peers", s.rotator.Len(),
		"follow", s.follow,
		"poll.interval", s.pollInterval,
		"force", s.force,
		"retry.budget", s.retryBudget,
	)

	var number uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := s.fetchBlock(ctx, number)
		switch {
		case err == nil:
			// fall through to decode

		case errors.Is(err, ErrBlockNotFound):
			if !s.follow {
				logger.Info(ctx, "end of chain reached",
					"stream.id", streamID,
					"block.number", number,
					"block.last_emitted", s.lastEmitted,
				)
				return nil
			}
			if s.pollInterval > 0 {
				if err := s.waitForNextPoll(ctx); err != nil {
					return err
				}
			}
			continue // same block number, never skipped while waiting

		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err

		default:
			if err := s.resolveBlockFailure(ctx, number, err); err != nil {
				return err
			}
			number++
			continue
		}

		block, err := s.decoder.DecodeBlock(payload, number)
		if err != nil {
			if err := s.resolveBlockFailure(ctx, number, err); err != nil {
				return err
			}
			number++
			continue
		}

		// The genesis block is never emitted.
		if number > 0 {
			if err := s.emitBlock(block); err != nil {
				return err
			}
			s.lastEmitted = number
		}
		number++
	}
}

// fetchBlock runs one retry-governed fetch sequence for a single block
// number. Every attempt, including the first, goes to the next peer in the
// rotation. Exactly retryBudget+1 attempts are made before the fetch is
// considered exhausted.
func (s *service) fetchBlock(ctx context.Context, number uint64) ([]byte, error) {
	var (
		payload  []byte
		attempts int
	)

	err := s.retrier.Execute(ctx, func() error {
		attempts++
		if attempts == 2 {
			logger.Warn(ctx, "block fetch failed, retrying against rotated peers",
				"block.number", number,
				"retry.budget", s.retryBudget,
			)
		}

		peer := s.rotator.Next()
		raw, err := s.fetcher.FetchBlock(ctx, peer, number)
		if err != nil {
			if !retryable(err) {
				return retry.Unrecoverable(err)
			}
			return fmt.Errorf("peer %s: %w", peer, err)
		}

		payload = raw
		return nil
	})

	if err == nil && attempts > 1 {
		logger.Info(ctx, "block fetch recovered",
			"block.number", number,
			"retries", attempts-1,
		)
	}

	return payload, err
}

// resolveBlockFailure applies the force-mode policy to an exhausted fetch or
// a decode failure. It returns nil when the block is skipped and the
// terminal error otherwise.
func (s *service) resolveBlockFailure(ctx context.Context, number uint64, cause error) error {
	if resolveFailure(s.force) == ActionSkip {
		logger.Error(ctx, "skipping block", "block.number", number, "error", cause)
		return nil
	}

	logger.Error(ctx, "terminal block failure", "block.number", number, "error", cause)
	return fmt.Errorf("block %d: %w", number, cause)
}

// emitBlock writes every transaction line of the block and then its boundary
// line, flushing in follow mode so tailing consumers observe the block
// promptly.
func (s *service) emitBlock(block Block) error {
	for _, tx := range block.Transactions {
		if err := s.emitter.EmitTransaction(tx.Type, tx.ID); err != nil {
			return fmt.Errorf("emit transaction %q: %w", tx.ID, err)
		}
	}

	if err := s.emitter.EmitBlockBoundary(block.Number); err != nil {
		return fmt.Errorf("emit boundary for block %d: %w", block.Number, err)
	}

	if s.follow {
		if err := s.emitter.Flush(); err != nil {
			return fmt.Errorf("flush after block %d: %w", block.Number, err)
		}
	}

	return nil
}

// waitForNextPoll blocks for the configured poll interval or until the
// context is canceled, whichever comes first.
func (s *service) waitForNextPoll(ctx context.Context) error {
	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
