// SPDX-License-Identifier: Apache-2.0

package eggwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestWireShapeHandshake(t *testing.T) {
	// spec.md §8 scenario 1, byte for byte.
	req := NewHandshakeRequest()

	header, err := req.Header()
	require.NoError(t, err)
	require.Equal(t, []byte{StartOfRequest, byte(CmdHandshakeReq), 0x00}, header)
	require.Equal(t, []byte{0x00, byte(CmdHandshakeReq), StartOfRequest}, req.ExpectedHeaderEcho())

	body := req.Body()
	wantC0, wantC1 := TrailerBytes([]byte{byte(CmdHandshakeReq), 0x00})
	require.Equal(t, []byte{byte(CmdHandshakeReq), 0x00, wantC0, wantC1, AllWritten}, body)
}

func TestRequestRejectsAckCommand(t *testing.T) {
	_, err := Request{Command: CmdPenAck}.Header()
	require.Error(t, err)
}

func TestRequestRejectsOversizedPayload(t *testing.T) {
	_, err := Request{Command: CmdMoveReq, Payload: make([]byte, 256)}.Header()
	require.Error(t, err)
}

func TestDecodeResponseSimple(t *testing.T) {
	buf := bytes.NewReader(EncodeAck(CmdPenAck, []byte{1}))
	resp, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.Equal(t, CmdPenAck, resp.Command)
	require.Equal(t, []byte{1}, resp.Payload)
}

func TestDecodeResponseNoPayload(t *testing.T) {
	buf := bytes.NewReader(EncodeAck(CmdBeginAck, nil))
	resp, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.Equal(t, CmdBeginAck, resp.Command)
	require.Empty(t, resp.Payload)
}

func TestDecodeResponseAbort(t *testing.T) {
	buf := bytes.NewReader(EncodeAbort())
	_, err := DecodeResponse(buf)
	require.ErrorIs(t, err, ErrEndpointAbort)
}

func TestDecodeResponseUnexpectedFirstByte(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00, 0x00})
	_, err := DecodeResponse(buf)
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrKindProtocol, perr.Kind)
}

func TestVerifyPayloadRegionRoundTrip(t *testing.T) {
	req := NewPenRequest(PenDown)
	region := req.Region()
	body := req.Body()
	trailer := [2]byte{body[len(body)-3], body[len(body)-2]}

	resp, err := VerifyPayloadRegion(CmdPenReq, byte(len(req.Payload)), region, trailer)
	require.NoError(t, err)
	require.Equal(t, CmdPenReq, resp.Command)
	require.Equal(t, req.Payload, resp.Payload)
}

func TestVerifyPayloadRegionChecksumMismatch(t *testing.T) {
	req := NewPenRequest(PenDown)
	region := req.Region()

	_, err := VerifyPayloadRegion(CmdPenReq, byte(len(req.Payload)), region, [2]byte{0x00, 0x00})
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrKindProtocol, perr.Kind)
}

func TestVerifyPayloadRegionHeaderMismatch(t *testing.T) {
	req := NewPenRequest(PenDown)
	region := req.Region()
	body := req.Body()
	trailer := [2]byte{body[len(body)-3], body[len(body)-2]}

	_, err := VerifyPayloadRegion(CmdMoveReq, byte(len(req.Payload)), region, trailer)
	require.Error(t, err)
}

func TestMoveRequestPointRoundTrip(t *testing.T) {
	points := []Point{{X: 10, Y: -20}, {X: 1599, Y: 210}}
	req := NewMoveRequest(points)

	decoded, err := DecodeMoveRequestPayload(req.Payload)
	require.NoError(t, err)
	require.Equal(t, points, decoded)
}

func TestLineRequestPayload(t *testing.T) {
	from, to := Point{X: 0, Y: 0}, Point{X: 5, Y: 5}
	req := NewLineRequest(from, to)
	require.Len(t, req.Payload, 8)

	gotFrom, err := UnmarshalPoint(req.Payload[:4])
	require.NoError(t, err)
	require.Equal(t, from, gotFrom)

	gotTo, err := UnmarshalPoint(req.Payload[4:])
	require.NoError(t, err)
	require.Equal(t, to, gotTo)
}

func TestCommandResponseCode(t *testing.T) {
	for _, req := range []Command{CmdHandshakeReq, CmdBeginReq, CmdEndReq, CmdPenReq, CmdMoveReq, CmdDotReq, CmdLineReq} {
		ack, ok := req.ResponseCode()
		require.True(t, ok, req.Name())
		require.Equal(t, req+1, ack)
	}

	_, ok := CmdPenAck.ResponseCode()
	require.False(t, ok)
}
