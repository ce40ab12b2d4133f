// SPDX-License-Identifier: Apache-2.0

package jobfile

import "github.com/eggwerks/eggprinter/pkg/eggwire"

// ToEggwire converts a job-file Point to the wire package's Point.
func (p Point) ToEggwire() eggwire.Point {
	return eggwire.Point{X: p.X, Y: p.Y}
}

// FromEggwire converts a wire Point to a job-file Point.
func FromEggwire(p eggwire.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// PenState decodes op.Pen into an eggwire.PenState. Only valid for OpPen;
// Validate has already rejected any other value.
func (op Op) PenState() eggwire.PenState {
	if op.Pen == "down" {
		return eggwire.PenDown
	}
	return eggwire.PenUp
}

// EggwirePoints converts op.Points to eggwire.Point, for OpMove.
func (op Op) EggwirePoints() []eggwire.Point {
	out := make([]eggwire.Point, len(op.Points))
	for i, p := range op.Points {
		out[i] = p.ToEggwire()
	}
	return out
}
