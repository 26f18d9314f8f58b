package dialogs

import "fmt"

// sendToClientSentinel is raised internally when a get_client_response step
// suspends a turn. It is always caught at RunTurn/RunTurnSync and never
// surfaces to callers.
type sendToClientSentinel struct{}

func (sendToClientSentinel) Error() string { return "dialogs: send to client" }

var errSendToClient error = sendToClientSentinel{}

// versionMismatchSentinel is raised internally when a recorded state's
// version disagrees with the current dialog definition at that position.
// It is caught at the root and triggers fallback orchestration.
type versionMismatchSentinel struct{}

func (versionMismatchSentinel) Error() string { return "dialogs: version mismatch" }

var errVersionMismatch error = versionMismatchSentinel{}

// DialogStateError reports a violation of a DialogState invariant:
// reading a return value before it is set, or setting one twice. It
// always indicates a defective author or a framework bug and is never
// recovered.
type DialogStateError struct {
	Op  string
	Msg string
}

func (e *DialogStateError) Error() string {
	return fmt.Sprintf("dialogs: %s: %s", e.Op, e.Msg)
}

func newDialogStateError(op, msg string) error {
	return &DialogStateError{Op: op, Msg: msg}
}

// UnsupportedKindError reports a step whose Kind the active entry point
// does not handle, e.g. an Async step reaching RunTurnSync.
type UnsupportedKindError struct {
	Kind     Kind
	DialogName string
	EntryPoint string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("dialogs: %s does not support kind %q (dialog %q)", e.EntryPoint, e.Kind, e.DialogName)
}

// FallbackVersionMismatchError reports that a fallback dialog itself hit
// a version mismatch while running with no fallback of its own. This is
// treated as unrecoverable rather than silently reset-and-restarted,
// unlike an ordinary no-fallback-configured mismatch at the top level.
type FallbackVersionMismatchError struct {
	DialogName string
}

func (e *FallbackVersionMismatchError) Error() string {
	return fmt.Sprintf("dialogs: fallback dialog %q hit a version mismatch with no fallback of its own", e.DialogName)
}

// ResponseValidationError wraps a client-response schema validation
// failure surfaced from a get_client_response step with an attached
// ResponseSchema.
type ResponseValidationError struct {
	Err error
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("dialogs: client response failed validation: %v", e.Err)
}

func (e *ResponseValidationError) Unwrap() error { return e.Err }
