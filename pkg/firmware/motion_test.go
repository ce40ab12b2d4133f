// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"testing"

	"github.com/eggwerks/eggprinter/pkg/eggwire"
)

func TestTrueModAlwaysNonNegative(t *testing.T) {
	cases := []struct{ a, m, want int }{
		{-1, 1600, 1599},
		{1599, 1600, 1599},
		{1600, 1600, 0},
		{-1600, 1600, 0},
		{0, 1600, 0},
	}
	for _, c := range cases {
		if got := trueMod(c.a, c.m); got != c.want {
			t.Errorf("trueMod(%d, %d) = %d, want %d", c.a, c.m, got, c.want)
		}
	}
}

func TestTranslateAppliesOriginAndClampsY(t *testing.T) {
	x, y := translate(100, 0)
	if x != 100 || y != eggwire.CanvasHeight/2 {
		t.Fatalf("translate(100, 0) = (%d, %d), want (100, %d)", x, y, eggwire.CanvasHeight/2)
	}

	_, yLow := translate(0, -10000)
	if yLow != 0 {
		t.Fatalf("translate saturating low = %d, want 0", yLow)
	}

	_, yHigh := translate(0, 10000)
	if yHigh != eggwire.CanvasHeight-1 {
		t.Fatalf("translate saturating high = %d, want %d", yHigh, eggwire.CanvasHeight-1)
	}
}

func TestLineToPulseCountsMatchBresenhamTermination(t *testing.T) {
	m, stepperX, stepperY, _, _ := NewSimMachine()
	m.SetPen(true)

	// A pure X move: the longer axis pulses once per unit of displacement
	// and the shorter axis never pulses.
	m.MoveTo(100, 0) // translated target (100, H/2): dx=100, dy=0 from origin (0, H/2)
	if stepperX.StepCount != 100 {
		t.Fatalf("stepperX.StepCount = %d, want 100", stepperX.StepCount)
	}
	if stepperY.StepCount != 0 {
		t.Fatalf("stepperY.StepCount = %d, want 0", stepperY.StepCount)
	}
}

func TestLineToLongerAndShorterPulseCounts(t *testing.T) {
	m, stepperX, stepperY, _, _ := NewSimMachine()
	m.SetPen(true)

	// From origin (0, H/2), move to (30, H/2+10): dx=30, dy=10.
	m.MoveTo(30, 10)

	longer, shorter := stepperX.StepCount, stepperY.StepCount
	if longer < 30 || longer > 31 {
		t.Fatalf("longer axis pulses = %d, want ~30", longer)
	}
	if shorter < 9 || shorter > 11 {
		t.Fatalf("shorter axis pulses = %d, want ~10", shorter)
	}
}

func TestLineToNoOpWhenAlreadyAtTarget(t *testing.T) {
	m, stepperX, stepperY, _, _ := NewSimMachine()
	m.SetPen(true)

	x, y := m.Position()
	m.MoveTo(x, y-eggwire.CanvasHeight/2) // untranslated (0,0) maps back to current position

	if stepperX.StepCount != 0 || stepperY.StepCount != 0 {
		t.Fatalf("expected no pulses moving to the current position, got x=%d y=%d", stepperX.StepCount, stepperY.StepCount)
	}
}

func TestFlyToWrapsAroundCylinder(t *testing.T) {
	m, stepperX, _, _, _ := NewSimMachine()
	// Pen stays up: MoveTo dispatches to flyTo.
	m.MoveTo(eggwire.CanvasWidth-1, 0)

	// Going the "short way" around the cylinder from x=0 to x=W-1 is a
	// single step backward, not W-1 steps forward.
	if stepperX.StepCount != 1 {
		t.Fatalf("stepperX.StepCount = %d, want 1 (cylindrical wrap)", stepperX.StepCount)
	}
	if stepperX.Forward {
		t.Fatalf("expected wrap direction to be reverse (negative dx), got forward")
	}
}

func TestFlyToNoOpAtTarget(t *testing.T) {
	m, stepperX, stepperY, _, _ := NewSimMachine()
	x, y := m.Position()
	m.MoveTo(x, y-eggwire.CanvasHeight/2)

	if stepperX.StepCount != 0 || stepperY.StepCount != 0 {
		t.Fatalf("expected no pulses, got x=%d y=%d", stepperX.StepCount, stepperY.StepCount)
	}
}

func TestSetPenDrivesServoAndSettles(t *testing.T) {
	m, _, _, servo, clock := NewSimMachine()

	m.SetPen(true)
	if servo.Angle != 140 {
		t.Fatalf("servo.Angle = %d, want 140 (down)", servo.Angle)
	}

	m.SetPen(false)
	if servo.Angle != 170 {
		t.Fatalf("servo.Angle = %d, want 170 (up)", servo.Angle)
	}

	if clock.TotalMillis < 2*penSettleMillis {
		t.Fatalf("clock.TotalMillis = %d, want at least %d", clock.TotalMillis, 2*penSettleMillis)
	}
}

func TestBeginEndDriveEnableLines(t *testing.T) {
	m, stepperX, stepperY, _, _ := NewSimMachine()

	m.SetEnabled(true)
	if !stepperX.Enabled || !stepperY.Enabled {
		t.Fatalf("expected both steppers enabled after Begin")
	}

	m.SetEnabled(false)
	if stepperX.Enabled || stepperY.Enabled {
		t.Fatalf("expected both steppers disabled after End")
	}
}
