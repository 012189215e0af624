package chainstream

// Emitter writes decoded records to the destination transaction log.
//
// The driver writes every transaction line of a block strictly before that
// block's boundary line, so a tailing reader can treat the boundary as "all
// transactions of this block have been fully written". Flush is called after
// each boundary only in follow mode; in one-shot mode the stream is closed on
// exit and no intermediate flush is needed.
type Emitter interface {
	EmitTransaction(txType TxType, id string) error
	EmitBlockBoundary(number uint64) error
	Flush() error
}
