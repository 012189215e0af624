package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/chaintail/internal/chainstream"
	"github.com/gabapcia/chaintail/internal/config"
	"github.com/gabapcia/chaintail/internal/infra/blockchain/openchain"
	"github.com/gabapcia/chaintail/internal/infra/membership"
	"github.com/gabapcia/chaintail/internal/infra/txlog"
	"github.com/gabapcia/chaintail/internal/pkg/cleanup"
	"github.com/gabapcia/chaintail/internal/pkg/logger"
	"github.com/gabapcia/chaintail/internal/pkg/procnotify"
	httpx "github.com/gabapcia/chaintail/internal/pkg/transport/http"

	"github.com/urfave/cli/v3"
)

// errNoPeerSource is raised at startup when neither explicit peers nor a
// discovery address are configured.
var errNoPeerSource = errors.New("no peers given and no discovery address configured")

// streamOptions is the fully merged (env + flags) stream configuration.
type streamOptions struct {
	follow       bool
	pollInterval time.Duration
	output       string
	deleteOnExit bool
	retries      int
	force        bool
	killPIDs     []int
	defaultPort  int
	peers        []string
	discovery    string
}

// streamCommand returns the CLI command running the block stream until the
// chain is exhausted (or indefinitely in follow mode).
//
// Usage example:
//
//	chaintail stream --follow --peer vp0:5000 --peer vp1:5000 -o /var/log/chain.txlog
func streamCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:        "stream",
		Description: "Streams committed ledger blocks, in order, into the transaction log.",
		Usage:       "Fetches blocks sequentially from the peer network and appends one line per transaction plus a boundary line per block.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "follow",
				Aliases: []string{"f"},
				Usage:   "keep polling for new blocks after reaching the chain tip",
				Value:   cfg.Follow,
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "wait between polls at the chain tip in follow mode (0 busy-polls)",
				Value: cfg.PollInterval,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "transaction log destination path (default: stdout)",
				Value:   cfg.Output,
			},
			&cli.BoolFlag{
				Name:  "delete-on-exit",
				Usage: "remove the output file when the process exits",
				Value: cfg.DeleteOnExit,
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "additional fetch attempts per block, each against the next peer",
				Value: cfg.Retries,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "skip blocks that cannot be fetched or decoded instead of terminating",
				Value: cfg.Force,
			},
			&cli.IntSliceFlag{
				Name:  "kill-pid",
				Usage: "process id to notify (SIGTERM) on fatal termination (repeatable)",
				Value: cfg.KillPIDs,
			},
			&cli.IntFlag{
				Name:  "default-port",
				Usage: "port applied to peer entries that lack one",
				Value: cfg.DefaultPort,
			},
			&cli.StringSliceFlag{
				Name:  "peer",
				Usage: "explicit peer endpoint host[:port] (repeatable, skips discovery)",
				Value: cfg.Peers,
			},
			&cli.StringFlag{
				Name:  "discovery",
				Usage: "bootstrap peer host:port used to look up the peer network",
				Value: cfg.Discovery,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := streamOptions{
				follow:       c.Bool("follow"),
				pollInterval: c.Duration("poll-interval"),
				output:       c.String("output"),
				deleteOnExit: c.Bool("delete-on-exit"),
				retries:      int(c.Int("retries")),
				force:        c.Bool("force"),
				killPIDs:     c.IntSlice("kill-pid"),
				defaultPort:  int(c.Int("default-port")),
				peers:        c.StringSlice("peer"),
				discovery:    c.String("discovery"),
			}

			err := runStream(ctx, opts)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}

			procnotify.NotifyAll(ctx, opts.killPIDs)
			return err
		},
	}
}

// runStream builds the stream pipeline and runs it to completion. Cleanup
// actions (log close, optional removal) run on every exit path, including
// interrupts.
func runStream(ctx context.Context, opts streamOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exits := cleanup.New()
	defer exits.Run(ctx)

	peers, err := resolvePeers(ctx, opts)
	if err != nil {
		return err
	}

	rotator, err := chainstream.NewRotator(peers)
	if err != nil {
		return err
	}

	var emitter *txlog.Writer
	if opts.output == "" {
		emitter = txlog.NewStdout()
		exits.Register("flush transaction log", emitter.Close)
	} else {
		emitter, err = txlog.NewFile(opts.output)
		if err != nil {
			return err
		}
		exits.Register("close transaction log", emitter.Close)
		if opts.deleteOnExit {
			exits.Register("remove transaction log", emitter.Remove)
		}
	}

	peerClient := openchain.NewClient(httpx.NewClient())

	svcOpts := []chainstream.Option{chainstream.WithRetryBudget(opts.retries)}
	if opts.follow {
		svcOpts = append(svcOpts, chainstream.WithFollow(opts.pollInterval))
	}
	if opts.force {
		svcOpts = append(svcOpts, chainstream.WithForce())
	}

	svc := chainstream.New(rotator, peerClient, peerClient, emitter, svcOpts...)

	if err := svc.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info(ctx, "stream interrupted")
		}
		return err
	}

	return nil
}

// resolvePeers produces the peer rotation input: explicit entries when
// given (with the default port filled in), otherwise the network descriptor
// from the discovery endpoint.
func resolvePeers(ctx context.Context, opts streamOptions) ([]chainstream.Peer, error) {
	if len(opts.peers) > 0 {
		return config.ParsePeers(opts.peers, opts.defaultPort)
	}

	if opts.discovery == "" {
		return nil, errNoPeerSource
	}

	conn := httpx.NewClient(httpx.WithRetryMax(2))
	descriptor, err := membership.NewClient(conn).Discover(ctx, opts.discovery)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "discovered peer network",
		"peers", len(descriptor.Peers),
		"consensus", descriptor.Consensus,
	)
	return descriptor.Peers, nil
}
