// Package cli wires the resolved configuration, the peer source, the
// openchain REST client, and the transaction log into runnable commands.
package cli

import (
	"context"
	"os"

	"github.com/gabapcia/chaintail/internal/config"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the chaintail CLI application.
//
// It registers all available commands, including:
//
//   - `stream`: Streams committed ledger blocks into the transaction log.
//   - `height`: Prints the current chain height of a peer.
//
// Flag defaults come from the environment-resolved configuration, so every
// option can be set either way, with flags taking precedence.
func Run(ctx context.Context, cfg config.Config) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "chaintail",
		Description:           "Command-line interface for streaming a ledger's block sequence into an ordered transaction log.",
		Usage:                 "chaintail [command] [flags]",
		Commands: []*cli.Command{
			streamCommand(cfg),
			heightCommand(cfg),
		},
	}

	return app.Run(ctx, os.Args)
}

// toInt64s widens pid lists for the CLI flag layer.
func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

// fromInt64s narrows pid lists coming back from the CLI flag layer.
func fromInt64s(values []int64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
