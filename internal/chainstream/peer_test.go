package chainstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotator(t *testing.T) {
	t.Run("fails on empty peer list", func(t *testing.T) {
		rotator, err := NewRotator(nil)

		assert.ErrorIs(t, err, ErrNoPeers)
		assert.Nil(t, rotator)
	})

	t.Run("preserves construction order", func(t *testing.T) {
		peers := []Peer{
			{Host: "vp0", Port: 5000},
			{Host: "vp1", Port: 5000},
		}

		rotator, err := NewRotator(peers)
		require.NoError(t, err)

		assert.Equal(t, 2, rotator.Len())
		assert.Equal(t, peers[0], rotator.Next())
		assert.Equal(t, peers[1], rotator.Next())
	})

	t.Run("is insulated from mutation of the input slice", func(t *testing.T) {
		peers := []Peer{{Host: "vp0", Port: 5000}}

		rotator, err := NewRotator(peers)
		require.NoError(t, err)

		peers[0] = Peer{Host: "changed", Port: 1}
		assert.Equal(t, Peer{Host: "vp0", Port: 5000}, rotator.Next())
	})
}

func TestRotator_Next(t *testing.T) {
	t.Run("wraps circularly and never terminates", func(t *testing.T) {
		peers := []Peer{
			{Host: "vp0", Port: 5000},
			{Host: "vp1", Port: 5001},
			{Host: "vp2", Port: 5002},
		}

		rotator, err := NewRotator(peers)
		require.NoError(t, err)

		for round := 0; round < 3; round++ {
			for _, want := range peers {
				assert.Equal(t, want, rotator.Next())
			}
		}
	})

	t.Run("single peer is returned on every call", func(t *testing.T) {
		peer := Peer{Host: "vp0", Port: 5000}

		rotator, err := NewRotator([]Peer{peer})
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			assert.Equal(t, peer, rotator.Next())
		}
	})

	t.Run("cursor persists across calls", func(t *testing.T) {
		peers := []Peer{
			{Host: "vp0", Port: 5000},
			{Host: "vp1", Port: 5000},
		}

		rotator, err := NewRotator(peers)
		require.NoError(t, err)

		// Advancing an odd number of times leaves the cursor mid-list.
		rotator.Next()
		rotator.Next()
		rotator.Next()

		assert.Equal(t, peers[1], rotator.Next())
	})
}

func TestPeer_String(t *testing.T) {
	assert.Equal(t, "vp0:5000", Peer{Host: "vp0", Port: 5000}.String())
}
