// SPDX-License-Identifier: Apache-2.0

package firmware

import "github.com/eggwerks/eggprinter/pkg/eggwire"

const pulseDelayMillis = 2

// SetPen records the persistent pen state and drives the servo to the
// matching angle, then blocks for its settle time (spec.md §4.4).
func (m *Machine) SetPen(down bool) {
	if down {
		m.penDown = eggwire.PenDown
	} else {
		m.penDown = eggwire.PenUp
	}

	angle := servoAngleUp
	if down {
		angle = servoAngleDown
	}
	m.servo.SetAngle(angle)
	m.clock.Sleep(penSettleMillis)
}

// translate applies the canvas origin and Y clamp every incoming point
// passes through before motion (spec.md §4.4). X is left unclamped here;
// flyTo alone takes it modulo the canvas width, and only for the purposes
// of choosing a direction — the stored position is never wrapped.
func translate(x, y int) (int, int) {
	ty := y + eggwire.CanvasHeight/2
	switch {
	case ty < 0:
		ty = 0
	case ty > eggwire.CanvasHeight-1:
		ty = eggwire.CanvasHeight - 1
	}
	return x, ty
}

// MoveTo is the single dispatch point where pen state decides motion mode:
// lineTo while drawing, flyTo while airborne (spec.md §4.4 — "the only
// place pen state affects motion").
func (m *Machine) MoveTo(x, y int) {
	tx, ty := translate(x, y)
	if m.penDown == eggwire.PenDown {
		m.lineTo(tx, ty)
	} else {
		m.flyTo(tx, ty)
	}
}

func setDirection(s StepperBackend, delta int) {
	// zero counts as forward/HIGH, matching spec.md §4.4 step 1.
	s.SetDirection(delta >= 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// lineTo is the Bresenham walker used while the pen is down: it advances
// both axes at a constant rate proportional to the longer displacement,
// accumulating an error term to decide when the shorter axis also steps.
func (m *Machine) lineTo(x, y int) {
	dx := x - m.penX
	dy := y - m.penY

	setDirection(m.stepper(AxisX), dx)
	setDirection(m.stepper(AxisY), dy)

	absDX, absDY := abs(dx), abs(dy)

	var longerAxis, shorterAxis Axis
	var longer, shorter int
	if absDX >= absDY {
		longerAxis, shorterAxis = AxisX, AxisY
		longer, shorter = absDX, absDY
	} else {
		longerAxis, shorterAxis = AxisY, AxisX
		longer, shorter = absDY, absDX
	}

	diff := 2*shorter - longer
	for l := 0; l < longer; l++ {
		m.stepper(longerAxis).Step()
		if diff > 0 {
			m.stepper(shorterAxis).Step()
		}
		m.clock.Sleep(pulseDelayMillis)

		if diff > 0 {
			diff -= 2 * longer
		}
		m.clock.Sleep(pulseDelayMillis)
		diff += 2 * shorter
	}

	m.penX, m.penY = x, y
}

// trueMod is Euclidean modulo: the result always shares Go's sign
// convention with m, i.e. is non-negative for a positive modulus,
// regardless of the sign of a. Go's % operator alone would return a
// negative result for a negative dividend, which is wrong for a
// cylindrical coordinate (spec.md §9).
func trueMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// flyTo is the cylindrical shortest-path walker used while the pen is up:
// X wraps modulo the canvas width, so a move can go around the "back" of
// the cylinder if that is shorter than going the long way.
func (m *Machine) flyTo(x, y int) {
	dx := trueMod(x-m.penX, eggwire.CanvasWidth)
	if abs(dx) > eggwire.CanvasWidth/2 {
		if dx > 0 {
			dx -= eggwire.CanvasWidth
		} else {
			dx += eggwire.CanvasWidth
		}
	}
	dy := y - m.penY

	setDirection(m.stepper(AxisX), dx)
	setDirection(m.stepper(AxisY), dy)

	absDX, absDY := abs(dx), abs(dy)
	steps := absDX
	if absDY > steps {
		steps = absDY
	}

	for s := 0; s < steps; s++ {
		if s < absDX {
			m.stepper(AxisX).Step()
		}
		if s < absDY {
			m.stepper(AxisY).Step()
		}
		m.clock.Sleep(pulseDelayMillis)
		m.clock.Sleep(pulseDelayMillis)
	}

	m.penX, m.penY = x, y
}
