// SPDX-License-Identifier: Apache-2.0

package eggwire

import "fmt"

// ErrorKind classifies a protocol failure for callers that need to branch
// on failure category rather than match error strings.
type ErrorKind string

// Error kinds.
const (
	ErrKindIO            ErrorKind = "io"
	ErrKindTimeout       ErrorKind = "timeout"
	ErrKindProtocol      ErrorKind = "protocol"
	ErrKindEndpointAbort ErrorKind = "endpoint_abort"
)

// ProtocolError is returned for any failure to synchronize, frame, or
// checksum-verify a request/response exchange. Details carries
// diagnostic context (offsets, expected/observed bytes) without forcing
// callers to parse a message string.
type ProtocolError struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

func (e *ProtocolError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("eggwire: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("eggwire: %s: %s %v", e.Kind, e.Message, e.Details)
}

// NewProtocolError builds a ProtocolError with the given kind and message.
func NewProtocolError(kind ErrorKind, message string, details map[string]any) *ProtocolError {
	return &ProtocolError{Kind: kind, Message: message, Details: details}
}

// ErrEndpointAbort is returned when the peer sends the three-byte 0xEF
// abort marker instead of a response frame (spec.md §4.5).
var ErrEndpointAbort = &ProtocolError{
	Kind:    ErrKindEndpointAbort,
	Message: "endpoint aborted the request",
}

// ErrChecksumMismatch is returned when a decoded frame's trailer bytes do
// not match the Fletcher-16 checksum recomputed over the received region.
func ErrChecksumMismatch(want, got [2]byte) *ProtocolError {
	return NewProtocolError(ErrKindProtocol, "checksum mismatch", map[string]any{
		"want": want,
		"got":  got,
	})
}

// ErrUnexpectedByte is returned when a fixed-position framing byte (a sync
// marker, SOR_RSP, ALL_WRITTEN) does not match what the protocol requires
// at that offset.
func ErrUnexpectedByte(context string, offset int, want, got byte) *ProtocolError {
	return NewProtocolError(ErrKindProtocol, "unexpected framing byte", map[string]any{
		"context": context,
		"offset":  offset,
		"want":    want,
		"got":     got,
	})
}

// ErrUnknownCommand is returned when a verified request names a command
// code that is not one of the request commands the firmware dispatches.
func ErrUnknownCommand(code byte) *ProtocolError {
	return NewProtocolError(ErrKindProtocol, "unknown command code", map[string]any{
		"code": code,
	})
}

// ErrMismatchedResponse is returned when a response frame's command code is
// not the expected ack for the request that was just sent.
func ErrMismatchedResponse(want, got Command) *ProtocolError {
	return NewProtocolError(ErrKindProtocol, "response command does not match request", map[string]any{
		"want": want.Name(),
		"got":  got.Name(),
	})
}
