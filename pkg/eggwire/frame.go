// SPDX-License-Identifier: Apache-2.0

package eggwire

import "io"

// Request is a fully-formed outbound command: a code plus its payload,
// ready for the two-write exchange spec.md §4.2 defines. Unlike a response,
// a request frame is not built as a single buffer: the host must read back
// a header echo from the firmware before it may write the payload and
// checksum trailer, so Request exposes its three wire pieces separately for
// the caller (pkg/hostsession) to interleave with reads.
type Request struct {
	Command Command
	Payload []byte
}

// SyncPreambleBytes is the 4-byte pattern that opens every request frame.
func SyncPreambleBytes() []byte {
	return []byte{SyncByte0, SyncByte1, SyncByte2, SyncByte3}
}

// SyncAckBytes is the firmware's fixed reply to the sync preamble.
func SyncAckBytes() []byte {
	return []byte{SyncAckByte0, SyncAckByte1, SyncAckByte2, SyncAckByte3}
}

func (r Request) validate() error {
	if !r.Command.IsRequest() {
		return NewProtocolError(ErrKindProtocol, "not a request command", map[string]any{
			"command": r.Command.Name(),
		})
	}
	if len(r.Payload) > 0xFF {
		return NewProtocolError(ErrKindProtocol, "payload too large", map[string]any{
			"length": len(r.Payload),
		})
	}
	return nil
}

// Header returns the 3-byte request header the host writes immediately
// after the sync preamble: SOR_REQ, command, length.
func (r Request) Header() ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	return []byte{StartOfRequest, byte(r.Command), byte(len(r.Payload))}, nil
}

// ExpectedHeaderEcho is the 3 bytes the firmware must echo back after
// receiving the header: length, command, SOR_REQ — the same three bytes in
// reverse order (spec.md §4.2 step 3).
func (r Request) ExpectedHeaderEcho() []byte {
	return []byte{byte(len(r.Payload)), byte(r.Command), StartOfRequest}
}

// Region returns the checksummed region: command, length, then the payload
// bytes. Command and length are repeated here even though they were just
// sent in Header — the checksum trailer covers this repeated copy, not the
// header (spec.md §3, §4.2).
func (r Request) Region() []byte {
	region := make([]byte, 0, 2+len(r.Payload))
	region = append(region, byte(r.Command), byte(len(r.Payload)))
	region = append(region, r.Payload...)
	return region
}

// Body returns the bytes the host writes once the header echo has been
// verified: the checksummed region, its Fletcher-16 trailer, and the
// all-written marker.
func (r Request) Body() []byte {
	region := r.Region()
	c0, c1 := TrailerBytes(region)
	body := make([]byte, 0, len(region)+3)
	body = append(body, region...)
	body = append(body, c0, c1, AllWritten)
	return body
}

// Response is a fully-decoded inbound frame.
type Response struct {
	Command Command
	Payload []byte
}

// DecodeResponse reads a single response frame from r:
//
//	SOR_RSP | length (1 byte) | ack command | ack payload...
//
// Unlike requests, responses carry no checksum trailer (spec.md §9: the
// asymmetry is intentional — only requests are checksummed, so the firmware
// can reject a corrupted command before acting on it; the host does not
// verify responses).
// An abort is signalled by three consecutive 0xEF bytes in place of
// SOR_RSP; DecodeResponse recognizes exactly that pattern and returns
// ErrEndpointAbort.
func DecodeResponse(r io.Reader) (Response, error) {
	var one [1]byte
	readByte := func() (byte, error) {
		_, err := io.ReadFull(r, one[:])
		return one[0], err
	}

	first, err := readByte()
	if err != nil {
		return Response{}, err
	}

	if first == ErrorMarker {
		for i := 0; i < 2; i++ {
			b, err := readByte()
			if err != nil {
				return Response{}, err
			}
			if b != ErrorMarker {
				return Response{}, ErrUnexpectedByte("abort marker", i+1, ErrorMarker, b)
			}
		}
		return Response{}, ErrEndpointAbort
	}

	if first != StartOfResponse {
		return Response{}, ErrUnexpectedByte("start of response", 0, StartOfResponse, first)
	}

	length, err := readByte()
	if err != nil {
		return Response{}, err
	}
	if length == 0 {
		return Response{}, NewProtocolError(ErrKindProtocol, "response length excludes the ack byte itself", nil)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Response{}, err
	}

	return Response{Command: Command(body[0]), Payload: body[1:]}, nil
}

// EncodeAck builds a response frame for the given ack command and payload,
// as written by the firmware side: SOR_RSP, length, ack command, payload.
func EncodeAck(ack Command, payload []byte) []byte {
	body := make([]byte, 0, 1+len(payload))
	body = append(body, byte(ack))
	body = append(body, payload...)

	frame := make([]byte, 0, 2+len(body))
	frame = append(frame, StartOfResponse, byte(len(body)))
	frame = append(frame, body...)
	return frame
}

// EncodeAbort returns the 3-byte error marker the firmware emits when it
// gives up on the current frame.
func EncodeAbort() []byte {
	return []byte{ErrorMarker, ErrorMarker, ErrorMarker}
}

// DecodedRequest is a request the firmware has fully verified: the command
// and length matched their repetition inside the checksummed region, and
// the Fletcher-16 trailer matched.
type DecodedRequest struct {
	Command Command
	Payload []byte
}

// VerifyPayloadRegion is the firmware-side mirror of Request.Body: given
// the command and length read during HEADER, the region read during
// PAYLOAD (repeated command, repeated length, then the payload bytes), and
// the two trailing checksum bytes, it re-derives the checksum and confirms
// the repeated header fields agree with what HEADER already read (spec.md
// §4.3's VERIFY phase).
func VerifyPayloadRegion(headerCmd Command, headerLen byte, region []byte, trailer [2]byte) (DecodedRequest, error) {
	if len(region) != int(headerLen)+2 {
		return DecodedRequest{}, NewProtocolError(ErrKindProtocol, "payload region has wrong length", map[string]any{
			"want": int(headerLen) + 2,
			"got":  len(region),
		})
	}
	if Command(region[0]) != headerCmd || region[1] != headerLen {
		return DecodedRequest{}, NewProtocolError(ErrKindProtocol, "header not repeated correctly in payload region", map[string]any{
			"headerCommand": headerCmd.Name(),
			"headerLength":  headerLen,
			"regionCommand": Command(region[0]).Name(),
			"regionLength":  region[1],
		})
	}

	c0, c1 := TrailerBytes(region)
	if c0 != trailer[0] || c1 != trailer[1] {
		return DecodedRequest{}, ErrChecksumMismatch([2]byte{c0, c1}, trailer)
	}

	return DecodedRequest{Command: headerCmd, Payload: region[2:]}, nil
}

// NewHandshakeRequest builds the HANDSHAKE request. It carries no payload;
// the version exchange happens entirely in the ack (see
// HandshakeAckPayload).
func NewHandshakeRequest() Request {
	return Request{Command: CmdHandshakeReq}
}

// NewBeginRequest builds the BEGIN request, which has no payload.
func NewBeginRequest() Request {
	return Request{Command: CmdBeginReq}
}

// NewEndRequest builds the END request, which has no payload.
func NewEndRequest() Request {
	return Request{Command: CmdEndReq}
}

// NewPenRequest builds the PEN request from the desired pen state.
func NewPenRequest(state PenState) Request {
	return Request{Command: CmdPenReq, Payload: []byte{state.Byte()}}
}

// NewMoveRequest builds the MOVE request from a sequence of waypoints, each
// visited with the pen held in its current state.
func NewMoveRequest(points []Point) Request {
	return Request{Command: CmdMoveReq, Payload: MoveRequestPayload(points)}
}

// NewDotRequest builds the DOT request: pen up, travel to the given point,
// then pen down there (the pen stays down afterwards).
func NewDotRequest(at Point) Request {
	return Request{Command: CmdDotReq, Payload: at.MarshalBinary()}
}

// NewLineRequest builds the LINE request, drawing a straight pen-down
// segment from one point to another regardless of current position.
func NewLineRequest(from, to Point) Request {
	return Request{Command: CmdLineReq, Payload: LineRequestPayload(from, to)}
}
