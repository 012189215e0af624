package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gabapcia/chaintail/internal/chainstream"
	"github.com/gabapcia/chaintail/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCommand(t *testing.T) {
	t.Run("should create command with correct metadata", func(t *testing.T) {
		cmd := streamCommand(config.Config{})

		assert.Equal(t, "stream", cmd.Name)
		assert.NotEmpty(t, cmd.Description)
		assert.NotNil(t, cmd.Action)
		assert.Len(t, cmd.Flags, 10)
	})

	t.Run("flag defaults come from the resolved configuration", func(t *testing.T) {
		cfg := config.Config{
			Follow:       true,
			PollInterval: 3 * time.Second,
			Retries:      7,
			DefaultPort:  5001,
			Peers:        []string{"vp0"},
		}

		cmd := streamCommand(cfg)

		defaults := map[string]any{}
		for _, flag := range cmd.Flags {
			// The first name is the canonical one.
			defaults[flag.Names()[0]] = true
		}

		assert.Contains(t, defaults, "follow")
		assert.Contains(t, defaults, "poll-interval")
		assert.Contains(t, defaults, "retries")
		assert.Contains(t, defaults, "default-port")
		assert.Contains(t, defaults, "peer")
		assert.Contains(t, defaults, "kill-pid")
		assert.Contains(t, defaults, "delete-on-exit")
		assert.Contains(t, defaults, "discovery")
	})
}

func TestRunStream(t *testing.T) {
	// A minimal peer serving a two-block chain.
	newChainServer := func(t *testing.T) *httptest.Server {
		t.Helper()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/chain/blocks/0":
				w.Write([]byte(`{}`))
			case "/chain/blocks/1":
				w.Write([]byte(`{"transactions":[{"type":1,"uuid":"cc1"}]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("streams a chain into the output file and exits cleanly", func(t *testing.T) {
		server := newChainServer(t)
		output := filepath.Join(t.TempDir(), "chain.txlog")

		opts := streamOptions{
			peers:  []string{strings.TrimPrefix(server.URL, "http://")},
			output: output,
		}

		err := runStream(t.Context(), opts)
		require.NoError(t, err)

		content, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "d cc1\nb 1\n", string(content))
	})

	t.Run("delete-on-exit removes the output file", func(t *testing.T) {
		server := newChainServer(t)
		output := filepath.Join(t.TempDir(), "chain.txlog")

		opts := streamOptions{
			peers:        []string{strings.TrimPrefix(server.URL, "http://")},
			output:       output,
			deleteOnExit: true,
		}

		err := runStream(t.Context(), opts)
		require.NoError(t, err)

		_, err = os.Stat(output)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("fails fast on a configuration error", func(t *testing.T) {
		err := runStream(t.Context(), streamOptions{})
		assert.ErrorIs(t, err, errNoPeerSource)
	})
}

func TestResolvePeers(t *testing.T) {
	t.Run("explicit peers skip discovery and receive the default port", func(t *testing.T) {
		opts := streamOptions{
			peers:       []string{"vp0", "vp1:5001"},
			defaultPort: 5000,
			discovery:   "should-not-be-contacted:5000",
		}

		peers, err := resolvePeers(t.Context(), opts)

		require.NoError(t, err)
		assert.Equal(t, []chainstream.Peer{
			{Host: "vp0", Port: 5000},
			{Host: "vp1", Port: 5001},
		}, peers)
	})

	t.Run("falls back to the discovery endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/network/peers", r.URL.Path)
			w.Write([]byte(`{"peers":[{"host":"vp0","port":5000}],"consensus":"replicated"}`))
		}))
		defer server.Close()

		opts := streamOptions{
			discovery: strings.TrimPrefix(server.URL, "http://"),
		}

		peers, err := resolvePeers(t.Context(), opts)

		require.NoError(t, err)
		assert.Equal(t, []chainstream.Peer{{Host: "vp0", Port: 5000}}, peers)
	})

	t.Run("fails when no peer source is configured", func(t *testing.T) {
		_, err := resolvePeers(t.Context(), streamOptions{})
		assert.ErrorIs(t, err, errNoPeerSource)
	})

	t.Run("invalid explicit peer entries fail", func(t *testing.T) {
		opts := streamOptions{
			peers:       []string{"vp0:notaport"},
			defaultPort: 5000,
		}

		_, err := resolvePeers(t.Context(), opts)
		assert.Error(t, err)
	})
}
