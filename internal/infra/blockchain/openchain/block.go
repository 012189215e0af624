package openchain

import (
	"encoding/json"

	"github.com/gabapcia/chaintail/internal/chainstream"
)

// Transaction type codes used by the openchain REST API.
const (
	txTypeDeploy = 1
	txTypeInvoke = 2
)

type (
	// transactionResponse represents a raw transaction object inside a block
	// payload. Pointer fields distinguish an absent field from a zero value.
	transactionResponse struct {
		Type *int    `json:"type"`
		UUID *string `json:"uuid"`
	}

	// blockResponse represents the block document returned by the peer's
	// block endpoint. Only the transactions field is decoded; everything
	// else in the document is ignored.
	blockResponse struct {
		Transactions *[]transactionResponse `json:"transactions"`
	}
)

// toStreamTransaction converts a raw transaction into a chainstream
// Transaction, failing on absent fields or unmapped type codes.
func (t transactionResponse) toStreamTransaction() (chainstream.Transaction, error) {
	if t.Type == nil {
		return chainstream.Transaction{}, &chainstream.MissingFieldError{Field: "type"}
	}
	if t.UUID == nil {
		return chainstream.Transaction{}, &chainstream.MissingFieldError{Field: "uuid"}
	}

	switch *t.Type {
	case txTypeDeploy:
		return chainstream.Transaction{Type: chainstream.TxTypeDeploy, ID: *t.UUID}, nil
	case txTypeInvoke:
		return chainstream.Transaction{Type: chainstream.TxTypeInvoke, ID: *t.UUID}, nil
	default:
		return chainstream.Transaction{}, &chainstream.UnknownTxTypeError{Type: *t.Type}
	}
}

// DecodeBlock implements the chainstream.Decoder contract.
//
// For block 0 the payload only has to parse as JSON; its transaction list is
// never inspected and the genesis block is returned with an empty list. For
// every other block the transactions field is required, and any absent
// field or unknown type code fails the whole block.
func (c *client) DecodeBlock(payload []byte, number uint64) (chainstream.Block, error) {
	var resp blockResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return chainstream.Block{}, &chainstream.MalformedPayloadError{Cause: err}
	}

	if number == 0 {
		return chainstream.Block{Number: 0}, nil
	}

	if resp.Transactions == nil {
		return chainstream.Block{}, &chainstream.MissingFieldError{Field: "transactions"}
	}

	transactions := make([]chainstream.Transaction, 0, len(*resp.Transactions))
	for _, raw := range *resp.Transactions {
		tx, err := raw.toStreamTransaction()
		if err != nil {
			return chainstream.Block{}, err
		}
		transactions = append(transactions, tx)
	}

	return chainstream.Block{Number: number, Transactions: transactions}, nil
}
