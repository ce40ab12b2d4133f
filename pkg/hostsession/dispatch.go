// SPDX-License-Identifier: Apache-2.0

package hostsession

import "github.com/eggwerks/eggprinter/pkg/eggwire"

// HandshakeResult is the decoded Handshake ack.
type HandshakeResult struct {
	Major, Minor uint8
}

// SendHandshake re-runs the Handshake exchange outside of Open, useful for
// a liveness check mid-session (see cmd/ping.go).
func (s *Session) SendHandshake() (HandshakeResult, error) {
	resp, err := s.send(eggwire.NewHandshakeRequest())
	if err != nil {
		return HandshakeResult{}, err
	}
	ack, err := eggwire.DecodeHandshakeAck(resp.Payload)
	if err != nil {
		return HandshakeResult{}, err
	}
	return HandshakeResult{Major: ack.Major, Minor: ack.Minor}, nil
}

// SendBegin enables both stepper motors, starting a drawing session.
func (s *Session) SendBegin() error {
	_, err := s.send(eggwire.NewBeginRequest())
	return err
}

// SendEnd raises the pen, returns to the origin, and disables the
// steppers, ending a drawing session.
func (s *Session) SendEnd() error {
	_, err := s.send(eggwire.NewEndRequest())
	return err
}

// SendPen commands the pen to the given state and returns the firmware's
// confirmed resulting state.
func (s *Session) SendPen(state eggwire.PenState) (eggwire.PenState, error) {
	resp, err := s.send(eggwire.NewPenRequest(state))
	if err != nil {
		return eggwire.PenUp, err
	}
	if len(resp.Payload) < 1 {
		return eggwire.PenUp, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "pen ack missing state byte", nil)
	}
	return eggwire.DecodePenState(resp.Payload[0]), nil
}

// SendMove walks the pen through each point in order, in its current pen
// state, and returns the number of points the firmware confirmed.
func (s *Session) SendMove(points []eggwire.Point) (int, error) {
	resp, err := s.send(eggwire.NewMoveRequest(points))
	if err != nil {
		return 0, err
	}
	if len(resp.Payload) < 1 {
		return 0, eggwire.NewProtocolError(eggwire.ErrKindProtocol, "move ack missing count byte", nil)
	}
	return int(resp.Payload[0]), nil
}

// SendDot lifts the pen, moves to at, and presses the pen down again.
func (s *Session) SendDot(at eggwire.Point) error {
	_, err := s.send(eggwire.NewDotRequest(at))
	return err
}

// SendLine draws a straight pen-down segment from from to to, lifting the
// pen for the initial travel move.
func (s *Session) SendLine(from, to eggwire.Point) error {
	_, err := s.send(eggwire.NewLineRequest(from, to))
	return err
}
