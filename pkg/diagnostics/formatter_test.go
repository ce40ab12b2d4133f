// SPDX-License-Identifier: Apache-2.0

package diagnostics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

func TestFormatFrameHandshakeAck(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	out := FormatFrame(at, DirectionFirmwareToHost, eggwire.CmdHandshakeAck, []byte{1, 3})

	require.Contains(t, out, "HANDSHAKE_ACK")
	require.Contains(t, out, "Version: 1.3")
	require.Contains(t, out, "<-")
}

func TestFormatPayloadPenState(t *testing.T) {
	out := FormatPayload(eggwire.CmdPenAck, []byte{eggwire.PenDown.Byte()})
	require.Contains(t, out, "Pen: down")
}

func TestFormatPayloadMoveDecodesPoints(t *testing.T) {
	payload := eggwire.MoveRequestPayload([]eggwire.Point{{X: 1, Y: 2}, {X: -3, Y: 4}})
	out := FormatPayload(eggwire.CmdMoveReq, payload)
	require.Contains(t, out, "(1, 2)")
	require.Contains(t, out, "(-3, 4)")
}

func TestFormatPayloadLineDecodesEndpoints(t *testing.T) {
	payload := eggwire.LineRequestPayload(eggwire.Point{X: 0, Y: 0}, eggwire.Point{X: 5, Y: 5})
	out := FormatPayload(eggwire.CmdLineReq, payload)
	require.Contains(t, out, "From: (0, 0)")
	require.Contains(t, out, "To: (5, 5)")
}

func TestFormatPayloadMalformedFallsBackToHex(t *testing.T) {
	out := FormatPayload(eggwire.CmdHandshakeAck, []byte{1})
	require.True(t, strings.HasPrefix(out, "  Raw:"))
}

func TestFormatPayloadNoPayloadCommands(t *testing.T) {
	require.Equal(t, "  (no payload)\n", FormatPayload(eggwire.CmdBeginReq, nil))
	require.Equal(t, "  (no payload)\n", FormatPayload(eggwire.CmdEndAck, nil))
}

func TestFormatCommandLabel(t *testing.T) {
	require.Equal(t, "MOVE (0x09)", FormatCommand(eggwire.CmdMoveReq))
}
