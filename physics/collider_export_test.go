// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

func TestNewSphereColliderUpdatePoseMovesCenter(t *testing.T) {
	c := NewSphereCollider(1)
	c.UpdatePose(lin.V3{X: 3, Y: 4, Z: 0}, *lin.NewQI())

	underlying := (*collider)(c)
	if underlying.sphere.center != (lin.V3{X: 3, Y: 4, Z: 0}) {
		t.Errorf("expected the sphere center to move to (3,4,0), got %+v", underlying.sphere.center)
	}
}

func TestNewBoxColliderAlignedInertiaNonZero(t *testing.T) {
	c := NewBoxCollider(1, 1, 1)
	inertia := c.AlignedInertia(2)
	if inertia.Xx == 0 || inertia.Yy == 0 || inertia.Zz == 0 {
		t.Errorf("expected a non-degenerate diagonal inertia tensor, got %+v", inertia)
	}
}
