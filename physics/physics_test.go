// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

// TestSimulateFreeFall confirms an unobstructed dynamic body falls
// under the configured acceleration, the free-fall testable scenario.
func TestSimulateFreeFall(t *testing.T) {
	w := NewWorld(nil)
	ball := w.Add(NewSphere(1, 1, false))
	ball.SetPosition(lin.V3{X: 0, Y: 100, Z: 0})

	const dt = 1.0 / 60.0
	for i := 0; i < 30; i++ {
		w.Simulate(dt)
	}
	if ball.Position().Y >= 100 {
		t.Errorf("expected the ball to have fallen, got y=%f", ball.Position().Y)
	}
	if ball.Velocity().Y >= 0 {
		t.Errorf("expected a downward velocity, got %f", ball.Velocity().Y)
	}
}

// TestSimulateRestsOnPlane confirms a dynamic sphere dropped onto a
// static floor comes to rest near the floor's surface instead of
// tunneling through or drifting away.
func TestSimulateRestsOnPlane(t *testing.T) {
	w := NewWorld(nil)
	floor := w.Add(NewSphere(50, 1, true))
	floor.SetPosition(lin.V3{X: 0, Y: -50, Z: 0})
	ball := w.Add(NewSphere(1, 1, false))
	ball.SetPosition(lin.V3{X: 0, Y: 2, Z: 0})

	const dt = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		w.Simulate(dt)
	}
	if ball.Position().Y < 0.5 || ball.Position().Y > 2.5 {
		t.Errorf("expected the ball to settle near the floor surface, got y=%f", ball.Position().Y)
	}
}

// TestSimulateSkipsOversizedStep confirms a step longer than
// maxStepSeconds leaves every body untouched rather than integrating
// a destabilizing jump.
func TestSimulateSkipsOversizedStep(t *testing.T) {
	w := NewWorld(nil)
	b := w.Add(NewSphere(1, 1, false))
	b.SetPosition(lin.V3{X: 1, Y: 2, Z: 3})
	w.Simulate(10)
	if b.Position() != (lin.V3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected the body to stay put after an oversized step, got %+v", b.Position())
	}
}

func TestSimulateAppliesDeathPlane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeathPlane = 0
	cfg.LeafRespawn = lin.V3{X: 0, Y: 42, Z: 0}
	w := NewWorld(cfg)
	b := w.Add(NewSphere(1, 1, false))
	b.SetPosition(lin.V3{X: 0, Y: -10, Z: 0})
	w.Simulate(1.0 / 60.0)
	if b.Position() != cfg.LeafRespawn {
		t.Errorf("expected the body to respawn at %+v, got %+v", cfg.LeafRespawn, b.Position())
	}
	if b.Velocity() != (lin.V3{}) {
		t.Errorf("expected the respawned body's velocity to be reset, got %+v", b.Velocity())
	}
}

func TestNewBoxProducesAConvexHullCollider(t *testing.T) {
	b := NewBox(1, 2, 3, 5, false)
	if len(b.colliders) != 1 {
		t.Fatalf("expected exactly one collider, got %d", len(b.colliders))
	}
	if b.colliders[0].ctype != collider_TYPE_CONVEX_HULL {
		t.Errorf("expected a convex hull collider")
	}
}
