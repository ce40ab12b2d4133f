// SPDX-License-Identifier: Apache-2.0

package firmware

// SimStepper is an in-memory StepperBackend that records every direction
// change and step pulse instead of driving real GPIO. It is the test
// double spec.md §9 calls for: no corpus example wires a real stepper
// driver either, so tests exercise this instead of hardware.
type SimStepper struct {
	Name string

	Forward bool
	Enabled bool

	StepCount    int
	Directions   []bool
	stepPulseLog []bool
}

// NewSimStepper constructs a disabled, forward-facing simulated stepper.
func NewSimStepper(name string) *SimStepper {
	return &SimStepper{Name: name, Forward: true}
}

func (s *SimStepper) SetDirection(forward bool) {
	s.Forward = forward
	s.Directions = append(s.Directions, forward)
}

func (s *SimStepper) SetEnabled(enabled bool) { s.Enabled = enabled }

func (s *SimStepper) Step() {
	s.StepCount++
	s.stepPulseLog = append(s.stepPulseLog, s.Forward)
}

// SimServo is an in-memory ServoBackend recording every commanded angle.
type SimServo struct {
	Angle    int
	AngleLog []int
}

func (s *SimServo) SetAngle(degrees int) {
	s.Angle = degrees
	s.AngleLog = append(s.AngleLog, degrees)
}

// SimClock is a Clock that records requested sleep durations without
// actually blocking, so motion tests run at full speed regardless of the
// 2ms-per-pulse and 200ms pen-settle delays spec.md §4.4 specifies.
type SimClock struct {
	TotalMillis int
	Sleeps      []int
}

func (c *SimClock) Sleep(millis int) {
	c.TotalMillis += millis
	c.Sleeps = append(c.Sleeps, millis)
}

// NewSimMachine builds a Machine wired entirely to simulated backends,
// convenient for tests and for cmd/simulate's headless run.
func NewSimMachine() (*Machine, *SimStepper, *SimStepper, *SimServo, *SimClock) {
	stepperX := NewSimStepper("X")
	stepperY := NewSimStepper("Y")
	servo := &SimServo{}
	clock := &SimClock{}
	return NewMachine(stepperX, stepperY, servo, clock), stepperX, stepperY, servo, clock
}
