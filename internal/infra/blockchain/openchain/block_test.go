package openchain

import (
	"testing"

	"github.com/gabapcia/chaintail/internal/chainstream"
	httpx "github.com/gabapcia/chaintail/internal/pkg/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DecodeBlock(t *testing.T) {
	client := NewClient(httpx.NewClient())

	t.Run("decodes deploy and invoke transactions in order", func(t *testing.T) {
		payload := []byte(`{"transactions":[{"type":1,"uuid":"cc1"},{"type":2,"uuid":"tx9"}]}`)

		block, err := client.DecodeBlock(payload, 5)

		require.NoError(t, err)
		assert.Equal(t, chainstream.Block{
			Number: 5,
			Transactions: []chainstream.Transaction{
				{Type: chainstream.TxTypeDeploy, ID: "cc1"},
				{Type: chainstream.TxTypeInvoke, ID: "tx9"},
			},
		}, block)
	})

	t.Run("decodes an empty transaction list", func(t *testing.T) {
		block, err := client.DecodeBlock([]byte(`{"transactions":[]}`), 3)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), block.Number)
		assert.Empty(t, block.Transactions)
	})

	t.Run("block zero ignores the transactions field entirely", func(t *testing.T) {
		block, err := client.DecodeBlock([]byte(`{"stateHash":"abc"}`), 0)

		require.NoError(t, err)
		assert.Equal(t, chainstream.Block{Number: 0}, block)
	})

	t.Run("block zero still requires a parseable document", func(t *testing.T) {
		_, err := client.DecodeBlock([]byte(`{{`), 0)

		var malformed *chainstream.MalformedPayloadError
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("missing transactions field fails non-genesis blocks", func(t *testing.T) {
		_, err := client.DecodeBlock([]byte(`{"stateHash":"abc"}`), 1)

		var missing *chainstream.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "transactions", missing.Field)
	})

	t.Run("missing type field fails the whole block", func(t *testing.T) {
		payload := []byte(`{"transactions":[{"uuid":"tx1"}]}`)

		_, err := client.DecodeBlock(payload, 1)

		var missing *chainstream.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "type", missing.Field)
	})

	t.Run("missing uuid field fails the whole block", func(t *testing.T) {
		payload := []byte(`{"transactions":[{"type":1,"uuid":"cc1"},{"type":2}]}`)

		_, err := client.DecodeBlock(payload, 1)

		var missing *chainstream.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "uuid", missing.Field)
	})

	t.Run("unknown transaction type fails the whole block", func(t *testing.T) {
		payload := []byte(`{"transactions":[{"type":3,"uuid":"tx1"}]}`)

		_, err := client.DecodeBlock(payload, 1)

		var unknown *chainstream.UnknownTxTypeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, 3, unknown.Type)
	})

	t.Run("malformed documents fail non-genesis blocks", func(t *testing.T) {
		_, err := client.DecodeBlock([]byte(`not json`), 4)

		var malformed *chainstream.MalformedPayloadError
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("decoding the same payload twice yields identical results", func(t *testing.T) {
		payload := []byte(`{"transactions":[{"type":1,"uuid":"cc1"},{"type":2,"uuid":"tx2"}]}`)

		first, err := client.DecodeBlock(payload, 9)
		require.NoError(t, err)

		second, err := client.DecodeBlock(payload, 9)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
