// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package skeleton

import (
	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
	"github.com/jcoffelt/basilisk/scene"
)

// Bone wraps one scene.Node and the Joints connecting it to its
// children, mirroring joints.py's Bone class.
type Bone struct {
	node             *scene.Node
	originalInvQuat  lin.Q // inverse of node's rotation at bind time.
	joints           []*Joint
}

// NewBone binds a scene node into a skeleton, recording its current
// rotation as the bind pose used by rotateParentOffset.
func NewBone(node *scene.Node) *Bone {
	return &Bone{node: node, originalInvQuat: *lin.NewQ().Inv(&node.Rotation)}
}

// Node returns the scene node this bone drives.
func (bn *Bone) Node() *scene.Node { return bn.node }

// Attach creates a joint from bn to child and records it, returning
// the joint for further configuration.
func (bn *Bone) Attach(kind Kind, child *Bone, parentOffset, childOffset lin.V3, springConstant, minRadius, maxRadius float64) *Joint {
	j := NewJoint(kind, child, parentOffset, childOffset, springConstant, minRadius, maxRadius)
	bn.joints = append(bn.joints, j)
	return j
}

// Update restricts every child bone relative to bn, then recurses,
// matching Bone.update in skeleton_handler.py. cfg selects the spring
// integrator (see PhysicsConfig.UseRK4Springs) and may be nil, in
// which case explicit Euler is used.
func (bn *Bone) Update(dt float64, cfg *physics.PhysicsConfig) {
	bn.restrictBones(dt, cfg)
	for _, j := range bn.joints {
		j.Child.Update(dt, cfg)
	}
}

// restrictBones applies each joint's rotate_parent_offset followed by
// its restrict, in that order -- matching Bone.restrict_bones exactly,
// since a joint's offset must reflect the parent's rotation since bind
// time before the spring step runs.
func (bn *Bone) restrictBones(dt float64, cfg *physics.PhysicsConfig) {
	delta := lin.NewQ().Mult(&bn.node.Rotation, &bn.originalInvQuat)
	for _, j := range bn.joints {
		j.rotateParentOffset(*delta)
	}
	for _, j := range bn.joints {
		j.restrict(bn.node, j.Child.node, dt, cfg)
	}
}

// Skeleton owns the root bones updated once per tick.
type Skeleton struct {
	roots []*Bone
}

// NewSkeleton creates an empty skeleton collection.
func NewSkeleton() *Skeleton { return &Skeleton{} }

// AddRoot registers bone as a top-level bone, updated every tick.
func (s *Skeleton) AddRoot(bone *Bone) { s.roots = append(s.roots, bone) }

// Update advances every root bone (and transitively every descendant)
// by dt, matching SkeletonHandler.update. cfg selects the spring
// integrator; pass the same PhysicsConfig driving the physics.World
// for this tick.
func (s *Skeleton) Update(dt float64, cfg *physics.PhysicsConfig) {
	for _, r := range s.roots {
		r.Update(dt, cfg)
	}
}
