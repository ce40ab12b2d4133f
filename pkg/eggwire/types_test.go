// SPDX-License-Identifier: Apache-2.0

package eggwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePenStateAnyNonzero(t *testing.T) {
	require.Equal(t, PenUp, DecodePenState(0x00))
	require.Equal(t, PenDown, DecodePenState(0x01))
	require.Equal(t, PenDown, DecodePenState(0xFF))
}

func TestDecodeHandshakeAckVersion(t *testing.T) {
	ack, err := DecodeHandshakeAck([]byte{1, 3})
	require.NoError(t, err)
	require.Equal(t, uint8(1), ack.Major)
	require.Equal(t, uint8(3), ack.Minor)
	require.Equal(t, 13, ack.Version())
}

func TestDecodeHandshakeAckShortPayload(t *testing.T) {
	_, err := DecodeHandshakeAck([]byte{1})
	require.Error(t, err)
}

func TestPointMarshalRoundTrip(t *testing.T) {
	p := Point{X: -1, Y: 32000}
	got, err := UnmarshalPoint(p.MarshalBinary())
	require.NoError(t, err)
	require.Equal(t, p, got)
}
