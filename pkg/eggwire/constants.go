// SPDX-License-Identifier: Apache-2.0

// Package eggwire implements the egg-printer serial wire protocol: framing,
// Fletcher-16 checksums, and the typed request/response command set
// exchanged between a host session and a firmware listener.
package eggwire

// Sync preamble that opens every request frame.
const (
	SyncByte0 = 0xFE
	SyncByte1 = 0xED
	SyncByte2 = 0xBA
	SyncByte3 = 0xBE
)

// SyncAckByte0..3 is the firmware's fixed reply to the sync preamble.
const (
	SyncAckByte0 = 0xCA
	SyncAckByte1 = 0xFE
	SyncAckByte2 = 0xF0
	SyncAckByte3 = 0x0D
)

// Framing markers.
const (
	StartOfRequest  = 0xFB // SOR_REQ
	AllWritten      = 0xFA // ALL_WRITTEN, closes a request frame
	StartOfResponse = 0xF9 // SOR_RSP
	ErrorMarker     = 0xEF // ERR, repeated three times on abort
)

// ProtocolVersionMajor/Minor is this implementation's handshake version.
const (
	ProtocolVersionMajor = 1
	ProtocolVersionMinor = 0
)

// Canvas geometry, fixed at firmware "compile time" per spec.
const (
	CanvasWidth  = 1600 // W: cylindrical circumference in X
	CanvasHeight = 420  // H: clamped extent in Y
)

// Fletcher-16 uses modulo 255, not 256 — this is part of the wire contract.
const fletcherModulus = 255

// Timeouts, in milliseconds, mirrored from the firmware's phase table.
const (
	SyncTimeoutMillis           = 500
	RequestPayloadTimeoutMillis = 2000
)

// Host-side I/O deadlines (spec.md §4.1).
const (
	WriteTimeoutMillis = 200
	ReadTimeoutMillis  = 500
)
