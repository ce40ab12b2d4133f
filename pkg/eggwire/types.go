// SPDX-License-Identifier: Apache-2.0

package eggwire

import "fmt"

// Point is a logical (x, y) coordinate, encoded big-endian as two signed
// 16-bit integers on the wire.
type Point struct {
	X, Y int16
}

// MarshalBinary encodes a Point as 4 big-endian bytes.
func (p Point) MarshalBinary() []byte {
	return []byte{
		byte(uint16(p.X) >> 8), byte(uint16(p.X)),
		byte(uint16(p.Y) >> 8), byte(uint16(p.Y)),
	}
}

// UnmarshalPoint decodes a Point from 4 big-endian bytes.
func UnmarshalPoint(b []byte) (Point, error) {
	if len(b) < 4 {
		return Point{}, fmt.Errorf("eggwire: point requires 4 bytes, got %d", len(b))
	}
	x := int16(uint16(b[0])<<8 | uint16(b[1]))
	y := int16(uint16(b[2])<<8 | uint16(b[3]))
	return Point{X: x, Y: y}, nil
}

// PenState is the two-valued pen enumeration. On the wire any nonzero byte
// decodes to Down.
type PenState uint8

// Pen states.
const (
	PenUp   PenState = 0
	PenDown PenState = 1
)

// DecodePenState interprets a wire byte per spec.md §3: nonzero is Down.
func DecodePenState(b byte) PenState {
	if b != 0 {
		return PenDown
	}
	return PenUp
}

// Byte encodes the pen state as its canonical wire byte.
func (s PenState) Byte() byte {
	if s == PenDown {
		return 1
	}
	return 0
}

func (s PenState) String() string {
	if s == PenDown {
		return "down"
	}
	return "up"
}

// Command is a single-byte command/ack code drawn from the closed set in
// spec.md §3.
type Command byte

// Request and ack command codes. Each request command's ack is exactly the
// request code plus one.
const (
	CmdHandshakeReq Command = 0x01
	CmdHandshakeAck Command = 0x02
	CmdBeginReq     Command = 0x03
	CmdBeginAck     Command = 0x04
	CmdEndReq       Command = 0x05
	CmdEndAck       Command = 0x06
	CmdPenReq       Command = 0x07
	CmdPenAck       Command = 0x08
	CmdMoveReq      Command = 0x09
	CmdMoveAck      Command = 0x0a
	CmdDotReq       Command = 0x0b
	CmdDotAck       Command = 0x0c
	CmdLineReq      Command = 0x0d
	CmdLineAck      Command = 0x0e
)

// ResponseCode returns the ack code matching this request command. Only
// valid for request codes; the boolean is false for anything else
// (including ack codes themselves).
func (c Command) ResponseCode() (Command, bool) {
	switch c {
	case CmdHandshakeReq, CmdBeginReq, CmdEndReq, CmdPenReq, CmdMoveReq, CmdDotReq, CmdLineReq:
		return c + 1, true
	default:
		return 0, false
	}
}

// IsRequest reports whether c is one of the seven request codes.
func (c Command) IsRequest() bool {
	_, ok := c.ResponseCode()
	return ok
}

// Name returns a human-readable command name for diagnostics.
func (c Command) Name() string {
	switch c {
	case CmdHandshakeReq:
		return "HANDSHAKE"
	case CmdHandshakeAck:
		return "HANDSHAKE_ACK"
	case CmdBeginReq:
		return "BEGIN"
	case CmdBeginAck:
		return "BEGIN_ACK"
	case CmdEndReq:
		return "END"
	case CmdEndAck:
		return "END_ACK"
	case CmdPenReq:
		return "PEN"
	case CmdPenAck:
		return "PEN_ACK"
	case CmdMoveReq:
		return "MOVE"
	case CmdMoveAck:
		return "MOVE_ACK"
	case CmdDotReq:
		return "DOT"
	case CmdDotAck:
		return "DOT_ACK"
	case CmdLineReq:
		return "LINE"
	case CmdLineAck:
		return "LINE_ACK"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", byte(c))
	}
}

// MoveRequestPayload encodes N points as the Move command's request payload
// (4N bytes, big-endian per point).
func MoveRequestPayload(points []Point) []byte {
	out := make([]byte, 0, len(points)*4)
	for _, p := range points {
		out = append(out, p.MarshalBinary()...)
	}
	return out
}

// DecodeMoveRequestPayload splits a Move command payload back into points.
func DecodeMoveRequestPayload(payload []byte) ([]Point, error) {
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("eggwire: move payload length %d not a multiple of 4", len(payload))
	}
	points := make([]Point, 0, len(payload)/4)
	for i := 0; i < len(payload); i += 4 {
		p, err := UnmarshalPoint(payload[i : i+4])
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// LineRequestPayload encodes the Line command's (from, to) payload.
func LineRequestPayload(from, to Point) []byte {
	out := make([]byte, 0, 8)
	out = append(out, from.MarshalBinary()...)
	out = append(out, to.MarshalBinary()...)
	return out
}

// HandshakeAckPayload holds a decoded handshake ack payload.
type HandshakeAckPayload struct {
	Major, Minor uint8
}

// DecodeHandshakeAck decodes a HANDSHAKE_ACK payload (major, minor).
func DecodeHandshakeAck(payload []byte) (HandshakeAckPayload, error) {
	if len(payload) < 2 {
		return HandshakeAckPayload{}, fmt.Errorf("eggwire: handshake ack requires 2 bytes, got %d", len(payload))
	}
	return HandshakeAckPayload{Major: payload[0], Minor: payload[1]}, nil
}

// Version returns major*10+minor, the comparison basis spec.md §4.1 uses to
// decide whether the listener needs reflashing.
func (h HandshakeAckPayload) Version() int {
	return int(h.Major)*10 + int(h.Minor)
}
