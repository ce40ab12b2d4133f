// SPDX-License-Identifier: Apache-2.0

// Package hostsession implements the host side of the egg-printer wire
// protocol: opening a port, synchronizing and handshaking with the
// firmware listener, and sending one typed request at a time.
package hostsession

import (
	"io"
	"sync"
	"time"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// Conn is the minimal transport a Session needs. *cmd.SerialConnection and
// *cmd.WebSocketConnection both satisfy it; so does an *os.File or an
// io.Pipe half in tests.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// Session owns one open connection and sequences it through open,
// synchronize, handshake, and repeated request/response exchanges
// (spec.md §2). Only one request may be outstanding at a time; send
// serializes callers with a mutex so that invariant holds even if a
// caller forgets to.
type Session struct {
	conn  Conn
	mu    sync.Mutex
	Stats Stats
}

// Open acquires conn and performs the handshake described by opts. The
// initial handshake request carries its own sync preamble (every request
// does, per send's framing), so Open does not perform a separate
// standalone synchronization round trip before it: doing so would leave
// the firmware mid-way through answering a header it never receives,
// which the very next request's fresh preamble would then collide with.
// The retry after a bootstrap reflash (see handshake.go) works the same
// way: the retried handshake request's own preamble is the only
// synchronization performed.
// On any failure the connection is closed and the error is returned; a
// caller never receives a half-initialized Session.
func Open(conn Conn, opts Options) (*Session, error) {
	s := &Session{conn: conn}

	if err := s.handshake(opts); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying connection. The Session must not be used
// afterward.
func (s *Session) Close() error {
	return s.conn.Close()
}

func wrapIOError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*eggwire.ProtocolError); ok {
		return err
	}
	return eggwire.NewProtocolError(eggwire.ErrKindIO, err.Error(), nil)
}

// send performs one full request/response exchange: sync, header,
// header-echo verification, payload+checksum, and the response frame,
// exactly as spec.md §4.2 lays out. It is the sole place a byte crosses
// the wire on behalf of a caller, and the sole place invariant
// "at most one request outstanding" is enforced.
func (s *Session) send(req eggwire.Request) (eggwire.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.sendLocked(req)
	s.Stats.Record(req.Command, err)
	return resp, err
}

func (s *Session) sendLocked(req eggwire.Request) (eggwire.Response, error) {
	if err := wrapIOError(eggwire.WriteFull(s.conn, eggwire.SyncPreambleBytes(), writeTimeout)); err != nil {
		return eggwire.Response{}, err
	}
	ack, err := eggwire.ReadN(s.conn, 4, readTimeout)
	if err != nil {
		return eggwire.Response{}, wrapIOError(err)
	}
	if string(ack) != string(eggwire.SyncAckBytes()) {
		return eggwire.Response{}, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "sync ack mismatch", map[string]any{
			"got": ack,
		})
	}

	header, err := req.Header()
	if err != nil {
		return eggwire.Response{}, err
	}
	if err := wrapIOError(eggwire.WriteFull(s.conn, header, writeTimeout)); err != nil {
		return eggwire.Response{}, err
	}

	echo, err := eggwire.ReadN(s.conn, 3, readTimeout)
	if err != nil {
		return eggwire.Response{}, wrapIOError(err)
	}
	if string(echo) != string(req.ExpectedHeaderEcho()) {
		return eggwire.Response{}, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "header echo mismatch", map[string]any{
			"want": req.ExpectedHeaderEcho(),
			"got":  echo,
		})
	}

	if err := wrapIOError(eggwire.WriteFull(s.conn, req.Body(), writeTimeout)); err != nil {
		return eggwire.Response{}, err
	}

	resp, err := s.readResponse()
	if err != nil {
		return eggwire.Response{}, err
	}

	wantAck, _ := req.Command.ResponseCode()
	if resp.Command != wantAck {
		return eggwire.Response{}, eggwire.ErrMismatchedResponse(wantAck, resp.Command)
	}
	return resp, nil
}

// readResponse reads one response frame, recognizing the three-byte abort
// marker as ErrEndpointAbort (spec.md §4.5: "ACK code mismatch: n/a;
// EF EF EF: EndpointError").
func (s *Session) readResponse() (eggwire.Response, error) {
	first, err := eggwire.ReadByte(s.conn, readTimeout)
	if err != nil {
		return eggwire.Response{}, wrapIOError(err)
	}

	if first == eggwire.ErrorMarker {
		rest, err := eggwire.ReadN(s.conn, 2, readTimeout)
		if err != nil {
			return eggwire.Response{}, wrapIOError(err)
		}
		if rest[0] != eggwire.ErrorMarker || rest[1] != eggwire.ErrorMarker {
			return eggwire.Response{}, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "malformed abort marker", nil)
		}
		return eggwire.Response{}, eggwire.ErrEndpointAbort
	}

	if first != eggwire.StartOfResponse {
		return eggwire.Response{}, eggwire.ErrUnexpectedByte("start of response", 0, eggwire.StartOfResponse, first)
	}

	length, err := eggwire.ReadByte(s.conn, readTimeout)
	if err != nil {
		return eggwire.Response{}, wrapIOError(err)
	}
	if length == 0 {
		return eggwire.Response{}, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "response length excludes the ack byte itself", nil)
	}

	body, err := eggwire.ReadN(s.conn, int(length), readTimeout)
	if err != nil {
		return eggwire.Response{}, wrapIOError(err)
	}

	return eggwire.Response{Command: eggwire.Command(body[0]), Payload: body[1:]}, nil
}

const (
	writeTimeout = eggwire.WriteTimeoutMillis * time.Millisecond
	readTimeout  = eggwire.ReadTimeoutMillis * time.Millisecond
)
