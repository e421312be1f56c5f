// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

// TestRK4StepMatchesAnalyticConstantAcceleration confirms RK4Step's
// delta position/velocity agree with the closed-form solution for
// motion under constant acceleration (x = v0*t + 0.5*a*t^2, v = a*t),
// which get_constant_rk4's degenerate (k2 == k3) formula should
// reproduce exactly.
func TestRK4StepMatchesAnalyticConstantAcceleration(t *testing.T) {
	v0 := lin.V3{X: 0, Y: -2, Z: 0}
	a := lin.V3{X: 0, Y: -9.8, Z: 0}
	dt := 1.0 / 60.0

	dPos, dVel := RK4Step(dt, v0, a)

	wantDVel := *lin.NewV3().Scale(&a, dt)
	if !dVel.Aeq(&wantDVel) {
		t.Errorf("expected delta velocity %+v, got %+v", wantDVel, dVel)
	}

	wantDPos := lin.V3{
		X: v0.X*dt + 0.5*a.X*dt*dt,
		Y: v0.Y*dt + 0.5*a.Y*dt*dt,
		Z: v0.Z*dt + 0.5*a.Z*dt*dt,
	}
	if !dPos.Aeq(&wantDPos) {
		t.Errorf("expected delta position %+v, got %+v", wantDPos, dPos)
	}
}

func TestRK4StepZeroAccelerationIsLinear(t *testing.T) {
	v := lin.V3{X: 3, Y: 0, Z: 0}
	dPos, dVel := RK4Step(0.5, v, lin.V3{})
	want := lin.V3{X: 1.5, Y: 0, Z: 0}
	if !dPos.Aeq(&want) {
		t.Errorf("expected delta position %+v, got %+v", want, dPos)
	}
	if dVel != (lin.V3{}) {
		t.Errorf("expected zero delta velocity, got %+v", dVel)
	}
}
