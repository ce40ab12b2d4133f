// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// phase names the listener's state, kept explicit for logging and tests
// rather than folded into control flow, in the style of a numbered
// protocol decoder state (spec.md §4.3).
type phase int

// Listener phases, in the order spec.md §4.3's table lists them.
const (
	phaseSync phase = iota
	phaseSyncAck
	phaseHeader
	phaseHeaderEcho
	phasePayload
	phaseTrailer
	phaseVerify
	phaseDispatch
)

func (p phase) String() string {
	switch p {
	case phaseSync:
		return "SYNC"
	case phaseSyncAck:
		return "SYNC_ACK"
	case phaseHeader:
		return "HEADER"
	case phaseHeaderEcho:
		return "HEADER_ECHO"
	case phasePayload:
		return "PAYLOAD"
	case phaseTrailer:
		return "TRAILER"
	case phaseVerify:
		return "VERIFY"
	case phaseDispatch:
		return "DISPATCH"
	default:
		return "UNKNOWN"
	}
}

// Listener drives a Machine from one serial connection, one command
// exchange at a time, exactly as spec.md §4.3 defines: a single-threaded
// cooperative state machine with no interrupts in the protocol path.
type Listener struct {
	conn    io.ReadWriter
	machine *Machine

	// OnPhaseError, if set, is called with the phase and error every time
	// an iteration aborts with EF EF EF — useful for cmd/trace and tests,
	// never consulted for control flow.
	OnPhaseError func(p phase, err error)
}

// NewListener wires a Listener to conn and machine.
func NewListener(conn io.ReadWriter, machine *Machine) *Listener {
	return &Listener{conn: conn, machine: machine}
}

// errSyncMismatch is a sentinel used internally to distinguish "silently
// resync" from every other failure, which must emit EF EF EF (spec.md
// §4.3: "On any timeout, marker mismatch, or verify failure, emit EF EF EF
// except SYNC, which silently restarts").
var errSyncMismatch = errors.New("firmware: sync preamble mismatch")

// RunOnce executes exactly one command exchange: sync, header, payload,
// verify, dispatch. It returns nil after a successful exchange, after a
// silent resync (SYNC phase mismatch), and after an aborted exchange whose
// EF EF EF marker was written, so callers can simply loop RunOnce forever.
// A non-nil error is an I/O failure on the connection itself: reading the
// sync preamble, or writing a response or the abort marker.
func (l *Listener) RunOnce() error {
	if err := l.awaitSync(); err != nil {
		if errors.Is(err, errSyncMismatch) {
			return nil
		}
		return err
	}

	if err := eggwire.WriteFull(l.conn, eggwire.SyncAckBytes(), 0); err != nil {
		return l.abort(phaseSyncAck, err)
	}

	header, err := eggwire.ReadN(l.conn, 3, eggwire.SyncTimeoutMillis*time.Millisecond)
	if err != nil {
		return l.abort(phaseHeader, err)
	}
	if header[0] != eggwire.StartOfRequest {
		return l.abort(phaseHeader, eggwire.ErrUnexpectedByte("header", 0, eggwire.StartOfRequest, header[0]))
	}
	cmd := eggwire.Command(header[1])
	length := header[2]

	echo := []byte{length, header[1], eggwire.StartOfRequest}
	if err := eggwire.WriteFull(l.conn, echo, 0); err != nil {
		return l.abort(phaseHeaderEcho, err)
	}

	region, err := eggwire.ReadN(l.conn, int(length)+2, eggwire.RequestPayloadTimeoutMillis*time.Millisecond)
	if err != nil {
		return l.abort(phasePayload, err)
	}
	trailerBytes, err := eggwire.ReadN(l.conn, 2, eggwire.RequestPayloadTimeoutMillis*time.Millisecond)
	if err != nil {
		return l.abort(phasePayload, err)
	}

	allWritten, err := eggwire.ReadByte(l.conn, eggwire.RequestPayloadTimeoutMillis*time.Millisecond)
	if err != nil {
		return l.abort(phaseTrailer, err)
	}
	if allWritten != eggwire.AllWritten {
		return l.abort(phaseTrailer, eggwire.ErrUnexpectedByte("all-written marker", 0, eggwire.AllWritten, allWritten))
	}

	decoded, err := eggwire.VerifyPayloadRegion(cmd, length, region, [2]byte{trailerBytes[0], trailerBytes[1]})
	if err != nil {
		return l.abort(phaseVerify, err)
	}

	respFrame, dispatchErr := Dispatch(l.machine, decoded)
	if dispatchErr != nil {
		return l.abort(phaseDispatch, dispatchErr)
	}
	if _, err := l.conn.Write(respFrame); err != nil {
		return err
	}
	return nil
}

// Serve calls RunOnce forever until stop is closed or a fatal (non-abort)
// I/O error occurs.
func (l *Listener) Serve(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		if err := l.RunOnce(); err != nil {
			return err
		}
	}
}

func (l *Listener) awaitSync() error {
	got, err := eggwire.ReadN(l.conn, 4, 0)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, eggwire.SyncPreambleBytes()) {
		return errSyncMismatch
	}
	return nil
}

// abort writes the three-byte error marker and reports the failure via
// OnPhaseError. It returns only the marker write's error, nil when the
// write succeeds, so the caller's loop simply proceeds to the next
// iteration's sync acquisition (spec.md §4.3: every non-SYNC
// failure path emits EF EF EF and returns to SYNC).
func (l *Listener) abort(p phase, cause error) error {
	if l.OnPhaseError != nil {
		l.OnPhaseError(p, cause)
	}
	_, err := l.conn.Write(eggwire.EncodeAbort())
	return err
}
