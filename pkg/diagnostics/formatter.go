// SPDX-License-Identifier: Apache-2.0

// Package diagnostics renders wire frames and session counters as
// human-readable text, for cmd/trace.go and cmd/monitor_tui.go.
package diagnostics

import (
	"fmt"
	"time"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

// Direction labels which side sent a frame, for FormatFrame's prefix.
type Direction string

// Frame directions.
const (
	DirectionHostToFirmware Direction = "->"
	DirectionFirmwareToHost Direction = "<-"
)

// FormatFrame formats one exchanged frame with a timestamp, direction
// arrow, command name, and decoded payload, mirroring
// pkg/helios_protocol/formatter.go's FormatPacket line-plus-payload shape.
func FormatFrame(at time.Time, dir Direction, cmd eggwire.Command, payload []byte) string {
	result := fmt.Sprintf("[%s] %s %s (0x%02X) len=%d\n",
		at.Format("15:04:05.000"), dir, cmd.Name(), byte(cmd), len(payload))

	if body := FormatPayload(cmd, payload); body != "" {
		result += body
	}
	return result
}

// FormatCommand returns a one-line "NAME (0xHH)" label, for places where a
// full frame dump would be too verbose.
func FormatCommand(cmd eggwire.Command) string {
	return fmt.Sprintf("%s (0x%02X)", cmd.Name(), byte(cmd))
}

// FormatPayload decodes a payload according to the command it belongs to.
// Unrecognized or malformed payloads fall back to a hex dump rather than
// failing: this function serves a human trace, not protocol validation.
func FormatPayload(cmd eggwire.Command, payload []byte) string {
	switch cmd {
	case eggwire.CmdHandshakeReq, eggwire.CmdBeginReq, eggwire.CmdEndReq,
		eggwire.CmdBeginAck, eggwire.CmdEndAck:
		return "  (no payload)\n"

	case eggwire.CmdHandshakeAck:
		ack, err := eggwire.DecodeHandshakeAck(payload)
		if err != nil {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  Version: %d.%d\n", ack.Major, ack.Minor)

	case eggwire.CmdPenReq, eggwire.CmdPenAck:
		if len(payload) < 1 {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  Pen: %s\n", eggwire.DecodePenState(payload[0]))

	case eggwire.CmdMoveReq:
		points, err := eggwire.DecodeMoveRequestPayload(payload)
		if err != nil {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  Points: %s\n", formatPoints(points))

	case eggwire.CmdMoveAck:
		if len(payload) < 1 {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  Confirmed: %d point(s)\n", payload[0])

	case eggwire.CmdDotReq:
		p, err := eggwire.UnmarshalPoint(payload)
		if err != nil {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  At: %s\n", formatPoint(p))

	case eggwire.CmdDotAck:
		return "  (no payload)\n"

	case eggwire.CmdLineReq:
		if len(payload) < 8 {
			return formatHexFallback(payload)
		}
		from, err1 := eggwire.UnmarshalPoint(payload[:4])
		to, err2 := eggwire.UnmarshalPoint(payload[4:8])
		if err1 != nil || err2 != nil {
			return formatHexFallback(payload)
		}
		return fmt.Sprintf("  From: %s  To: %s\n", formatPoint(from), formatPoint(to))

	case eggwire.CmdLineAck:
		return "  (no payload)\n"

	default:
		if len(payload) == 0 {
			return ""
		}
		return formatHexFallback(payload)
	}
}

func formatPoint(p eggwire.Point) string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func formatPoints(points []eggwire.Point) string {
	out := ""
	for i, p := range points {
		if i > 0 {
			out += ", "
		}
		out += formatPoint(p)
	}
	return out
}

func formatHexFallback(payload []byte) string {
	if len(payload) == 0 {
		return "  (no payload)\n"
	}
	return fmt.Sprintf("  Raw: % X\n", payload)
}
