package chainstream

import "fmt"

// MalformedPayloadError reports a block payload that does not parse as a
// structured document.
type MalformedPayloadError struct {
	Cause error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed block payload: %v", e.Cause)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Cause
}

// MissingFieldError reports a block payload that parses but lacks a field
// required for decoding.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("block payload missing required field %q", e.Field)
}

// UnknownTxTypeError reports a transaction whose type code maps to neither
// deploy nor invoke.
type UnknownTxTypeError struct {
	Type int
}

func (e *UnknownTxTypeError) Error() string {
	return fmt.Sprintf("unknown transaction type %d", e.Type)
}

// Decoder parses a fetched payload into a Block.
//
// Decoding is all-or-nothing: any malformed document, missing field, or
// unknown transaction type fails the whole block, so a partial transaction
// list is never produced. Failures are classified on the error value as
// *MalformedPayloadError, *MissingFieldError, or *UnknownTxTypeError; none of
// them is retryable, since re-parsing the same payload cannot succeed.
//
// For block 0 the transaction list is neither required nor inspected: once
// the document parses, implementations return the genesis block with an empty
// list.
type Decoder interface {
	DecodeBlock(payload []byte, number uint64) (Block, error)
}
