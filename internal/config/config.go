// Package config resolves the process configuration from CHAINTAIL_*
// environment variables into a single options record. CLI flags use these
// values as their defaults and override them when set.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gabapcia/chaintail/internal/chainstream"
	"github.com/gabapcia/chaintail/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the environment variable prefix, e.g. CHAINTAIL_RETRIES.
const envPrefix = "CHAINTAIL"

// Config is the resolved options record consumed by the CLI layer.
type Config struct {
	// Follow keeps polling for new blocks at the chain tip instead of
	// exiting.
	Follow bool `envconfig:"FOLLOW"`

	// PollInterval is the wait between polls at the chain tip in follow
	// mode. Zero busy-polls with no delay.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`

	// Output is the transaction log destination. Empty means stdout.
	Output string `envconfig:"OUTPUT"`

	// DeleteOnExit removes the output file when the process exits. Only
	// meaningful with a file Output.
	DeleteOnExit bool `envconfig:"DELETE_ON_EXIT"`

	// Retries is the per-block retry budget: how many additional fetch
	// attempts are made after the first one fails.
	Retries int `envconfig:"RETRIES" default:"2" validate:"min=0"`

	// Force tolerates exhausted or undecodable blocks by skipping them
	// instead of terminating.
	Force bool `envconfig:"FORCE"`

	// Debug enables debug-level logging with timestamps.
	Debug bool `envconfig:"DEBUG"`

	// KillPIDs lists process ids notified (SIGTERM, best-effort) when the
	// stream terminates fatally.
	KillPIDs []int `envconfig:"KILL_PIDS"`

	// DefaultPort is applied to explicit peer entries that lack a port.
	DefaultPort int `envconfig:"DEFAULT_PORT" default:"5000" validate:"min=1,max=65535"`

	// Peers lists explicit peer endpoints ("host" or "host:port"). When
	// set, peer discovery is skipped entirely.
	Peers []string `envconfig:"PEERS"`

	// Discovery is the bootstrap "host:port" used to look up the peer
	// network descriptor when Peers is empty.
	Discovery string `envconfig:"DISCOVERY"`

	// LogLevel is the minimum diagnostic log level.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Telemetry enables OTLP export of logs, metrics, and traces.
	Telemetry bool `envconfig:"TELEMETRY"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParsePeers converts explicit peer entries into chainstream Peers. Entries
// are "host" or "host:port"; entries without a port receive defaultPort.
func ParsePeers(entries []string, defaultPort int) ([]chainstream.Peer, error) {
	peers := make([]chainstream.Peer, 0, len(entries))
	for _, entry := range entries {
		host, portText, hasPort := strings.Cut(entry, ":")
		if host == "" {
			return nil, fmt.Errorf("peer entry %q has no host", entry)
		}

		port := defaultPort
		if hasPort {
			parsed, err := strconv.Atoi(portText)
			if err != nil || parsed < 1 || parsed > 65535 {
				return nil, fmt.Errorf("peer entry %q has an invalid port", entry)
			}
			port = parsed
		}

		peers = append(peers, chainstream.Peer{Host: host, Port: port})
	}

	return peers, nil
}
