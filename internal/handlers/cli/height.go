package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/chaintail/internal/config"
	"github.com/gabapcia/chaintail/internal/infra/blockchain/openchain"
	httpx "github.com/gabapcia/chaintail/internal/pkg/transport/http"

	"github.com/urfave/cli/v3"
)

// heightCommand returns a CLI command that prints the current chain height
// reported by the first resolved peer.
//
// Usage example:
//
//	chaintail height --peer vp0:5000
func heightCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:        "height",
		Description: "Prints the number of blocks currently committed on the chain.",
		Usage:       "Queries the first resolved peer for its chain height.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "peer",
				Usage: "explicit peer endpoint host[:port] (repeatable, skips discovery)",
				Value: cfg.Peers,
			},
			&cli.IntFlag{
				Name:  "default-port",
				Usage: "port applied to peer entries that lack one",
				Value: cfg.DefaultPort,
			},
			&cli.StringFlag{
				Name:  "discovery",
				Usage: "bootstrap peer host:port used to look up the peer network",
				Value: cfg.Discovery,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := streamOptions{
				peers:       c.StringSlice("peer"),
				defaultPort: int(c.Int("default-port")),
				discovery:   c.String("discovery"),
			}

			peers, err := resolvePeers(ctx, opts)
			if err != nil {
				return err
			}

			client := openchain.NewClient(httpx.NewClient(httpx.WithRetryMax(2)))
			height, err := client.ChainHeight(ctx, peers[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.Root().Writer, "%d\n", height)
			return err
		},
	}
}
