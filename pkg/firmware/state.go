// SPDX-License-Identifier: Apache-2.0

package firmware

import "github.com/eggwerks/eggprinter/pkg/eggwire"

// Servo angles the pen commands between, and the settle time the motion
// kernel blocks for after each change (spec.md §4.4).
const (
	servoAngleDown  = 140
	servoAngleUp    = 170
	penSettleMillis = 200
)

// Axis identifies one of the two stepper motors.
type Axis int

// The two motor axes.
const (
	AxisX Axis = iota
	AxisY
)

// Machine holds all of the listener's persistent state: pen position, pen
// state, and the stepper/servo backends it drives. Rather than package
// globals (a true embedded target's only option), the state is
// encapsulated in one owning struct so a test or cmd/simulate run can
// stand up any number of independent machines (spec.md §9).
type Machine struct {
	steppers [2]StepperBackend
	servo    ServoBackend
	clock    Clock

	penDown eggwire.PenState
	penX    int
	penY    int

	enabled bool
}

// NewMachine constructs a Machine at the canvas origin with the pen up and
// steppers disabled, matching a freshly power-cycled listener (spec.md
// §3's Lifecycle: firmware state persists for the power cycle, and starts
// at the origin).
func NewMachine(stepperX, stepperY StepperBackend, servo ServoBackend, clock Clock) *Machine {
	return &Machine{
		steppers: [2]StepperBackend{stepperX, stepperY},
		servo:    servo,
		clock:    clock,
		penDown:  eggwire.PenUp,
		penX:     0,
		penY:     eggwire.CanvasHeight / 2,
	}
}

// PenDown reports the current persistent pen state.
func (m *Machine) PenDown() eggwire.PenState { return m.penDown }

// Position reports the current translated pen position.
func (m *Machine) Position() (x, y int) { return m.penX, m.penY }

// SetEnabled drives both stepper ENABLE lines. Begin drives them low
// (enabled); End drives them high (disabled) — spec.md §4.3.
func (m *Machine) SetEnabled(enabled bool) {
	m.enabled = enabled
	for _, s := range m.steppers {
		s.SetEnabled(enabled)
	}
}

func (m *Machine) stepper(a Axis) StepperBackend { return m.steppers[a] }
