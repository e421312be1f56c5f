// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

// TestResolveContactsBouncesASeparatingPair confirms a falling dynamic
// sphere resting on a static sphere picks up an upward (separating)
// velocity from a single head-on contact, per the elastic-bounce
// testable property in the data model.
func TestResolveContactsBouncesASeparatingPair(t *testing.T) {
	floor := NewSphere(5, 1, true)
	floor.SetPosition(lin.V3{X: 0, Y: 0, Z: 0})

	ball := NewSphere(1, 1, false)
	ball.SetPosition(lin.V3{X: 0, Y: 5.9, Z: 0})
	ball.SetVelocity(lin.V3{X: 0, Y: -2, Z: 0})
	ball.restitution_coefficient = 1.0

	contact := collider_Contact{
		collision_point1: lin.V3{X: 0, Y: 5.0, Z: 0},
		collision_point2: lin.V3{X: 0, Y: 5.1, Z: 0},
		normal:           lin.V3{X: 0, Y: 1, Z: 0},
	}
	resolveContacts(DefaultConfig(), floor, ball, []collider_Contact{contact})

	if ball.linear_velocity.Y <= 0 {
		t.Errorf("expected the ball to bounce upward, got velocity %+v", ball.linear_velocity)
	}
	if floor.linear_velocity != (lin.V3{}) {
		t.Errorf("expected the static floor to remain motionless, got %+v", floor.linear_velocity)
	}
}

// TestResolveContactsSkipsSeparatingContacts confirms no impulse is
// applied when the relative velocity along the normal is already
// separating (vN > 0).
func TestResolveContactsSkipsSeparatingContacts(t *testing.T) {
	a := NewSphere(1, 1, false)
	a.SetVelocity(lin.V3{X: 0, Y: 1, Z: 0})
	b := NewSphere(1, 1, false)
	b.SetPosition(lin.V3{X: 0, Y: 1.9, Z: 0})
	b.SetVelocity(lin.V3{X: 0, Y: 5, Z: 0})

	contact := collider_Contact{
		collision_point1: lin.V3{X: 0, Y: 1, Z: 0},
		collision_point2: lin.V3{X: 0, Y: 0.9, Z: 0},
		normal:           lin.V3{X: 0, Y: 1, Z: 0},
	}
	beforeA, beforeB := a.linear_velocity, b.linear_velocity
	resolveContacts(DefaultConfig(), a, b, []collider_Contact{contact})
	if a.linear_velocity != beforeA || b.linear_velocity != beforeB {
		t.Errorf("expected no impulse on a separating pair")
	}
}

func TestCorrectPenetrationSplitsDynamicDynamic50_50(t *testing.T) {
	a := NewSphere(1, 1, false)
	a.SetPosition(lin.V3{X: 0, Y: 0, Z: 0})
	b := NewSphere(1, 1, false)
	b.SetPosition(lin.V3{X: 0, Y: 1.5, Z: 0})

	contact := collider_Contact{
		collision_point1: lin.V3{X: 0, Y: 1, Z: 0},
		collision_point2: lin.V3{X: 0, Y: 0.5, Z: 0},
		normal:           lin.V3{X: 0, Y: 1, Z: 0},
	}
	correctPenetration(a, b, []collider_Contact{contact})

	if a.world_position.Y >= 0 {
		t.Errorf("expected a to move down, got y=%f", a.world_position.Y)
	}
	if b.world_position.Y <= 1.5 {
		t.Errorf("expected b to move up, got y=%f", b.world_position.Y)
	}
}

func TestCorrectPenetrationMovesOnlyDynamicSide(t *testing.T) {
	static := NewSphere(5, 1, true)
	dynamic := NewSphere(1, 1, false)
	dynamic.SetPosition(lin.V3{X: 0, Y: 5.5, Z: 0})

	contact := collider_Contact{
		collision_point1: lin.V3{X: 0, Y: 5.0, Z: 0},
		collision_point2: lin.V3{X: 0, Y: 4.5, Z: 0},
		normal:           lin.V3{X: 0, Y: 1, Z: 0},
	}
	before := static.world_position
	correctPenetration(static, dynamic, []collider_Contact{contact})
	if static.world_position != before {
		t.Errorf("expected the static body to stay put, got %+v", static.world_position)
	}
	if dynamic.world_position.Y <= 5.5 {
		t.Errorf("expected the dynamic body to move away, got y=%f", dynamic.world_position.Y)
	}
}

func TestWarnIfDegenerateDetectsZeroNormal(t *testing.T) {
	if !warnIfDegenerate(lin.V3{}) {
		t.Errorf("expected a zero normal to be flagged degenerate")
	}
	if warnIfDegenerate(lin.V3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("expected a unit normal not to be flagged degenerate")
	}
}
