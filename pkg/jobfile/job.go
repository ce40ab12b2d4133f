// SPDX-License-Identifier: Apache-2.0

// Package jobfile defines a CBOR-encoded drawing job: an ordered list of
// pen and motion operations that cmd/draw.go plays back through a
// hostsession.Session, one operation at a time. It knows nothing about the
// wire protocol or the session that will execute it; that separation
// mirrors the teacher's own Fusain Packet type, which knows its message
// type and payload map but nothing about the controller loop that sends
// it (see _examples/Thermoquad-heliostat/pkg/fusain/packet.go).
package jobfile

import "fmt"

// Point is a job-file coordinate, kept distinct from eggwire.Point so this
// package's on-disk shape doesn't change if the wire encoding ever does.
type Point struct {
	X int16 `cbor:"x"`
	Y int16 `cbor:"y"`
}

// OpKind names one of the six operations a job can contain. Handshake and
// its ack are session-lifecycle concerns, not part of a job: Open already
// performs them once, before any job plays.
type OpKind string

// Operation kinds.
const (
	OpBegin OpKind = "begin"
	OpEnd   OpKind = "end"
	OpPen   OpKind = "pen"
	OpMove  OpKind = "move"
	OpDot   OpKind = "dot"
	OpLine  OpKind = "line"
)

// Op is one step of a job. Only the fields relevant to Kind are populated;
// the rest are the type's zero value and omitted from the encoded form.
type Op struct {
	Kind OpKind `cbor:"kind"`

	// Pen is "up" or "down", used by OpPen.
	Pen string `cbor:"pen,omitempty"`

	// Points is used by OpMove.
	Points []Point `cbor:"points,omitempty"`

	// At is used by OpDot.
	At *Point `cbor:"at,omitempty"`

	// From and To are used by OpLine.
	From *Point `cbor:"from,omitempty"`
	To   *Point `cbor:"to,omitempty"`
}

// Job is a complete drawing program: the model it was authored for (an
// informational field cmd/draw.go can use to warn on mismatch, not
// something this package enforces) plus the ordered operation list.
type Job struct {
	Model string `cbor:"model"`
	Ops   []Op   `cbor:"ops"`
}

// Validate checks that every Op carries the fields its Kind requires and
// no others are missing, without reaching for a *hostsession.Session or
// the wire codec. Decode calls this on every job it parses (and Encode
// before serializing), so a malformed job file read by cmd/draw.go fails
// before any motor moves.
func (j Job) Validate() error {
	for i, op := range j.Ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("jobfile: op %d: %w", i, err)
		}
	}
	return nil
}

func (op Op) validate() error {
	switch op.Kind {
	case OpBegin, OpEnd:
		return nil
	case OpPen:
		if op.Pen != "up" && op.Pen != "down" {
			return fmt.Errorf("pen op requires pen to be \"up\" or \"down\", got %q", op.Pen)
		}
		return nil
	case OpMove:
		if len(op.Points) == 0 {
			return fmt.Errorf("move op requires at least one point")
		}
		return nil
	case OpDot:
		if op.At == nil {
			return fmt.Errorf("dot op requires at")
		}
		return nil
	case OpLine:
		if op.From == nil || op.To == nil {
			return fmt.Errorf("line op requires from and to")
		}
		return nil
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
}
