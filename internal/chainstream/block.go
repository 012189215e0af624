package chainstream

// TxType identifies the kind of ledger transaction carried in a block.
type TxType int

const (
	// TxTypeDeploy is a chaincode deployment. Its transaction ID is the
	// chaincode name rather than a random identifier.
	TxTypeDeploy TxType = iota + 1

	// TxTypeInvoke is a chaincode invocation.
	TxTypeInvoke
)

// String returns a human-readable name for the transaction type.
func (t TxType) String() string {
	switch t {
	case TxTypeDeploy:
		return "deploy"
	case TxTypeInvoke:
		return "invoke"
	default:
		return "unknown"
	}
}

// Transaction represents a single committed ledger transaction.
// The ID is carried as an opaque string regardless of type.
type Transaction struct {
	Type TxType // deploy or invoke
	ID   string // chaincode name for deploys, transaction id for invokes
}

// Block represents a numbered, ordered unit of committed transactions.
//
// Block 0 is the genesis block: its transaction list is never decoded or
// emitted, so a decoded genesis block always carries an empty list.
type Block struct {
	Number       uint64
	Transactions []Transaction
}
