// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package skeleton

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
	"github.com/jcoffelt/basilisk/scene"
)

func newTestBone(tr *scene.Tree, parent int, pos lin.V3) (*scene.Node, *Bone) {
	idx := tr.AddLeaf(parent)
	n := tr.Nodes[idx]
	n.Position = pos
	return n, NewBone(n)
}

func TestFreeJointSnapsWithoutPhysicsBody(t *testing.T) {
	tr := scene.NewTree()
	parentNode, parentBone := newTestBone(tr, -1, lin.V3{X: 0, Y: 0, Z: 0})
	childNode, childBone := newTestBone(tr, -1, lin.V3{X: 5, Y: 0, Z: 0})

	j := parentBone.Attach(KindFree, childBone, lin.V3{}, lin.V3{X: 2, Y: 0, Z: 0}, 1e10, 0, 1)
	j.restrict(parentNode, childNode, 1.0/60.0, physics.DefaultConfig())

	want := lin.V3{X: 2, Y: 0, Z: 0}
	got := childNode.Position
	if (got.X-want.X)*(got.X-want.X) > 1e-9 || got.Y != want.Y || got.Z != want.Z {
		t.Errorf("expected the child to snap to %+v, got %+v", want, got)
	}
}

func TestFreeJointSpringPullsBodyTowardOffset(t *testing.T) {
	tr := scene.NewTree()
	parentNode, parentBone := newTestBone(tr, -1, lin.V3{X: 0, Y: 0, Z: 0})
	childNode, childBone := newTestBone(tr, -1, lin.V3{X: 5, Y: 0, Z: 0})
	childNode.Body = physics.NewSphere(1, 1, false)
	childNode.Body.SetPosition(childNode.Position)

	j := parentBone.Attach(KindFree, childBone, lin.V3{}, lin.V3{X: 2, Y: 0, Z: 0}, 1e3, 0, 1)
	for i := 0; i < 10; i++ {
		j.restrict(parentNode, childNode, 1.0/240.0, physics.DefaultConfig())
	}
	if childNode.Position.X >= 5 {
		t.Errorf("expected the spring to pull the child toward the parent, got x=%f", childNode.Position.X)
	}
}

func TestFreeJointSpringPullsBodyTowardOffsetWithRK4(t *testing.T) {
	tr := scene.NewTree()
	parentNode, parentBone := newTestBone(tr, -1, lin.V3{X: 0, Y: 0, Z: 0})
	childNode, childBone := newTestBone(tr, -1, lin.V3{X: 5, Y: 0, Z: 0})
	childNode.Body = physics.NewSphere(1, 1, false)
	childNode.Body.SetPosition(childNode.Position)

	cfg := physics.DefaultConfig()
	cfg.UseRK4Springs = true

	j := parentBone.Attach(KindFree, childBone, lin.V3{}, lin.V3{X: 2, Y: 0, Z: 0}, 1e3, 0, 1)
	for i := 0; i < 10; i++ {
		j.restrict(parentNode, childNode, 1.0/240.0, cfg)
	}
	if childNode.Position.X >= 5 {
		t.Errorf("expected the rk4-integrated spring to pull the child toward the parent, got x=%f", childNode.Position.X)
	}
}

func TestPistonJointSnapsLikeFreeJoint(t *testing.T) {
	tr := scene.NewTree()
	parentNode, parentBone := newTestBone(tr, -1, lin.V3{X: 0, Y: 0, Z: 0})
	childNode, childBone := newTestBone(tr, -1, lin.V3{X: 3, Y: 0, Z: 0})

	j := parentBone.Attach(KindPiston, childBone, lin.V3{}, lin.V3{X: 1, Y: 0, Z: 0}, 1e3, 0, 1)
	want := lin.V3{X: 1, Y: 0, Z: 0}
	j.restrict(parentNode, childNode, 1.0/60.0, physics.DefaultConfig())
	if childNode.Position != want {
		t.Errorf("expected a piston joint to snap the child to %+v like a free joint, got %+v", want, childNode.Position)
	}
}

func TestSkeletonUpdateRecursesThroughBones(t *testing.T) {
	tr := scene.NewTree()
	rootNode, rootBone := newTestBone(tr, -1, lin.V3{})
	midNode, midBone := newTestBone(tr, -1, lin.V3{X: 2, Y: 0, Z: 0})
	leafNode, leafBone := newTestBone(tr, -1, lin.V3{X: 4, Y: 0, Z: 0})

	rootBone.Attach(KindFree, midBone, lin.V3{}, lin.V3{X: 1, Y: 0, Z: 0}, 1e10, 0, 1)
	midBone.Attach(KindFree, leafBone, lin.V3{}, lin.V3{X: 1, Y: 0, Z: 0}, 1e10, 0, 1)

	sk := NewSkeleton()
	sk.AddRoot(rootBone)
	sk.Update(1.0/60.0, physics.DefaultConfig())

	if midNode.Position.X != 1 {
		t.Errorf("expected the mid bone to snap to x=1, got %f", midNode.Position.X)
	}
	if leafNode.Position.X != 2 {
		t.Errorf("expected the leaf bone to snap to x=2 relative to the mid bone, got %f", leafNode.Position.X)
	}
	_ = rootNode
}
