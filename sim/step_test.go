// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package sim

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
	"github.com/jcoffelt/basilisk/scene"
	"github.com/jcoffelt/basilisk/skeleton"
)

// TestStepRunsSkeletonBetweenSceneGraphAndResolution confirms a
// skeleton-restricted leaf is snapped to its joint's offset by the
// time Step returns. Neither node carries a body, so only the joint's
// snap is checked here.
func TestStepRunsSkeletonBetweenSceneGraphAndResolution(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Accelerations = nil // isolate the joint restriction from gravity.
	world := physics.NewWorld(cfg)
	tree := scene.NewTree()

	parentIdx := tree.AddLeaf(-1)
	parentNode := tree.Nodes[parentIdx]

	childIdx := tree.AddLeaf(-1)
	childNode := tree.Nodes[childIdx]
	childNode.Position = lin.V3{X: 5, Y: 0, Z: 0}

	skel := skeleton.NewSkeleton()
	parentBone := skeleton.NewBone(parentNode)
	childBone := skeleton.NewBone(childNode)
	parentBone.Attach(skeleton.KindFree, childBone, lin.V3{}, lin.V3{X: 2, Y: 0, Z: 0}, 1e10, 0, 1)
	skel.AddRoot(parentBone)

	Step(world, tree, skel, 1.0/60.0)

	want := lin.V3{X: 2, Y: 0, Z: 0}
	got := childNode.Position
	if (got.X-want.X)*(got.X-want.X) > 1e-9 || got.Y != want.Y || got.Z != want.Z {
		t.Errorf("expected the joint to snap the child to %+v, got %+v", want, got)
	}
}

// TestStepSkipsSkeletonWhenNil confirms a nil Skeleton is a no-op,
// not a panic, for scenes with no bone hierarchy.
func TestStepSkipsSkeletonWhenNil(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	tree := scene.NewTree()
	idx := tree.AddLeaf(-1)
	body := world.Add(physics.NewSphere(1, 1, false))
	tree.Nodes[idx].Body = body

	Step(world, tree, nil, 1.0/60.0)
}

// TestStepSkipsOversizedTimestep confirms an oversized dt skips the
// whole tick, including collision resolution, mirroring
// physics_handler.py's own "delta_time > 0.05: return" guard.
func TestStepSkipsOversizedTimestep(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	tree := scene.NewTree()
	idx := tree.AddLeaf(-1)
	body := world.Add(physics.NewSphere(1, 1, false))
	body.SetPosition(lin.V3{X: 0, Y: 100, Z: 0})
	tree.Nodes[idx].Body = body

	Step(world, tree, nil, 10)

	if tree.Nodes[idx].Position != (lin.V3{}) {
		t.Errorf("expected the oversized step to skip scene graph sync entirely, got %+v", tree.Nodes[idx].Position)
	}
}
