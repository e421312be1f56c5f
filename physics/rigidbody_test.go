// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"math"
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

func TestBodyCreateExDynamicInverseMass(t *testing.T) {
	b := NewSphere(1, 2, false)
	if b.inverse_mass != 0.5 {
		t.Errorf("expected inverse mass 0.5, got %f", b.inverse_mass)
	}
}

func TestBodyCreateExStaticHasZeroInverseMass(t *testing.T) {
	b := NewSphere(1, 2, true)
	if b.inverse_mass != 0 {
		t.Errorf("expected static body to have zero inverse mass, got %f", b.inverse_mass)
	}
	if b.aligned_inverse_inertia != (lin.M3{}) {
		t.Errorf("expected static body to have a zeroed inverse inertia tensor")
	}
}

func TestSetAngularVelocitySnapsNearZero(t *testing.T) {
	b := NewSphere(1, 1, false)
	b.SetAngularVelocity(lin.V3{X: 1e-9, Y: 0, Z: 0})
	if b.angular_speed != 0 {
		t.Errorf("expected angular speed to snap to 0, got %f", b.angular_speed)
	}
	if b.angular_axis.X != 1 || b.angular_axis.Y != 0 || b.angular_axis.Z != 0 {
		t.Errorf("expected canonical axis (1,0,0), got %+v", b.angular_axis)
	}
}

func TestSetAngularVelocityDerivesAxisAndSpeed(t *testing.T) {
	b := NewSphere(1, 1, false)
	b.SetAngularVelocity(lin.V3{X: 0, Y: 2, Z: 0})
	if math.Abs(b.angular_speed-2) > 1e-9 {
		t.Errorf("expected speed 2, got %f", b.angular_speed)
	}
	if b.angular_axis.Y != 1 {
		t.Errorf("expected axis (0,1,0), got %+v", b.angular_axis)
	}
}

func TestIntegrateTransformMovesFreeFallingBody(t *testing.T) {
	cfg := DefaultConfig()
	b := NewSphere(1, 1, false)
	b.SetPosition(lin.V3{X: 0, Y: 10, Z: 0})
	b.applyGravityAndAccelerations(cfg)
	b.integrateVelocities(1.0 / 60.0)
	b.integrateTransform(1.0 / 60.0)
	if b.world_position.Y >= 10 {
		t.Errorf("expected gravity to pull the body down, got y=%f", b.world_position.Y)
	}
}

func TestIntegrateTransformSkipsStaticBody(t *testing.T) {
	b := NewSphere(1, 1, true)
	b.SetVelocity(lin.V3{X: 1, Y: 0, Z: 0})
	b.integrateTransform(1.0)
	if b.world_position != (lin.V3{}) {
		t.Errorf("expected static body to stay at the origin, got %+v", b.world_position)
	}
}

func TestCombinedRestitutionPicksMax(t *testing.T) {
	a := NewSphere(1, 1, false)
	b := NewSphere(1, 1, false)
	a.restitution_coefficient = 0.2
	b.restitution_coefficient = 0.8
	if got := combinedRestitution(a, b); got != 0.8 {
		t.Errorf("expected 0.8, got %f", got)
	}
}

func TestCombinedFrictionPicksMin(t *testing.T) {
	a := NewSphere(1, 1, false)
	b := NewSphere(1, 1, false)
	a.static_friction_coefficient, a.dynamic_friction_coefficient = 0.9, 0.9
	b.static_friction_coefficient, b.dynamic_friction_coefficient = 0.3, 0.4
	static, kinetic := combinedFriction(a, b)
	if static != 0.3 || kinetic != 0.4 {
		t.Errorf("expected (0.3, 0.4), got (%f, %f)", static, kinetic)
	}
}

// TestUtilGetModelMatrixNoScaleIdentity confirms that an identity
// rotation produces a pure translation, the simplest case of the
// negated-axis convention where the sign flip has no visible effect.
func TestUtilGetModelMatrixNoScaleIdentity(t *testing.T) {
	m := util_get_model_matrix_no_scale(lin.NewQI(), lin.V3{X: 1, Y: 2, Z: 3})
	if m.Wx != 1 || m.Wy != 2 || m.Wz != 3 {
		t.Errorf("expected translation (1,2,3), got (%f,%f,%f)", m.Wx, m.Wy, m.Wz)
	}
}
