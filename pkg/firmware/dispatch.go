// SPDX-License-Identifier: Apache-2.0

package firmware

import "github.com/eggwerks/eggprinter/pkg/eggwire"

// Dispatch executes a fully-verified request against machine and returns
// the response frame to write back, exactly per spec.md §4.3's per-command
// table. An error return means the command was not recognized or its
// payload could not be decoded; the caller
// (Listener) is responsible for turning that into the EF EF EF marker
// rather than writing a response frame.
func Dispatch(machine *Machine, req eggwire.DecodedRequest) ([]byte, error) {
	switch req.Command {
	case eggwire.CmdHandshakeReq:
		return eggwire.EncodeAck(eggwire.CmdHandshakeAck, []byte{
			eggwire.ProtocolVersionMajor, eggwire.ProtocolVersionMinor,
		}), nil

	case eggwire.CmdBeginReq:
		machine.SetEnabled(true)
		return eggwire.EncodeAck(eggwire.CmdBeginAck, nil), nil

	case eggwire.CmdEndReq:
		machine.SetPen(false)
		machine.MoveTo(0, 0)
		machine.SetEnabled(false)
		return eggwire.EncodeAck(eggwire.CmdEndAck, nil), nil

	case eggwire.CmdPenReq:
		if len(req.Payload) < 1 {
			return nil, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "pen request missing state byte", nil)
		}
		state := eggwire.DecodePenState(req.Payload[0])
		machine.SetPen(state == eggwire.PenDown)
		return eggwire.EncodeAck(eggwire.CmdPenAck, []byte{machine.PenDown().Byte()}), nil

	case eggwire.CmdMoveReq:
		points, err := eggwire.DecodeMoveRequestPayload(req.Payload)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			machine.MoveTo(int(p.X), int(p.Y))
		}
		return eggwire.EncodeAck(eggwire.CmdMoveAck, []byte{byte(len(points))}), nil

	case eggwire.CmdDotReq:
		p, err := eggwire.UnmarshalPoint(req.Payload)
		if err != nil {
			return nil, err
		}
		machine.SetPen(false)
		machine.MoveTo(int(p.X), int(p.Y))
		machine.SetPen(true)
		return eggwire.EncodeAck(eggwire.CmdDotAck, nil), nil

	case eggwire.CmdLineReq:
		if len(req.Payload) < 8 {
			return nil, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "line request payload too short", nil)
		}
		from, err := eggwire.UnmarshalPoint(req.Payload[:4])
		if err != nil {
			return nil, err
		}
		to, err := eggwire.UnmarshalPoint(req.Payload[4:8])
		if err != nil {
			return nil, err
		}
		machine.SetPen(false)
		machine.MoveTo(int(from.X), int(from.Y))
		machine.SetPen(true)
		machine.MoveTo(int(to.X), int(to.Y))
		return eggwire.EncodeAck(eggwire.CmdLineAck, nil), nil

	default:
		return nil, eggwire.ErrUnknownCommand(byte(req.Command))
	}
}
