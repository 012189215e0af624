package chainstream

import "errors"

// retryable reports whether a block failure may be resolved by fetching
// again from another peer. Transport and unexpected-status failures qualify.
// A not-found outcome is terminal for the retry scope (end-of-chain handling
// belongs to the driver), and decode failures never qualify because
// re-parsing the same payload cannot succeed.
func retryable(err error) bool {
	if errors.Is(err, ErrBlockNotFound) {
		return false
	}

	var (
		malformed *MalformedPayloadError
		missing   *MissingFieldError
		unknown   *UnknownTxTypeError
	)
	if errors.As(err, &malformed) || errors.As(err, &missing) || errors.As(err, &unknown) {
		return false
	}

	return true
}

// FailureAction is the outcome of the force-mode policy for a block whose
// fetch was exhausted or whose payload failed to decode.
type FailureAction int

const (
	// ActionFatal terminates the stream with a failure indication.
	ActionFatal FailureAction = iota

	// ActionSkip abandons the current block without emitting any of its
	// lines and advances to the next block number.
	ActionSkip
)

// resolveFailure decides how an unretryable block failure is handled.
// Force mode tolerates the failure and skips the block; otherwise the
// failure is fatal.
func resolveFailure(force bool) FailureAction {
	if force {
		return ActionSkip
	}

	return ActionFatal
}
