// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package skeleton implements the bone/joint tree that restricts a
// child Node's position (and for a Ball joint, orientation) relative
// to a parent Node each tick, using a damped spring rather than a hard
// constraint.
//
// It is grounded on BasiliskEngine's scripts/skeletons/joints.py and
// scripts/skeletons/skeleton_handler.py: a Bone wraps one scene.Node
// and owns the Joints to its children, and Hinge/Rotator/Piston are
// kept as thin aliases of the base spring Joint, matching the
// original's own create_joint dispatch there (both "rotator" and
// "hinge" return a plain Joint; only "ball" differs), where Piston also
// has only a plain Joint behind it. None of the three adds an
// orientation restriction.
package skeleton

import (
	"math"

	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
	"github.com/jcoffelt/basilisk/scene"
)

// Kind selects a Joint's restriction behavior.
type Kind uint8

const (
	KindFree Kind = iota
	KindBall
	KindHinge   // behaves as KindFree; no distinct per-axis restriction yet.
	KindRotator // behaves as KindFree; no distinct per-axis restriction yet.
	KindPiston  // behaves as KindFree; no distinct per-axis restriction.
)

// Joint restricts a child bone's node to within a damped-spring radius
// of an offset from the parent, per §4.7 of the data model.
type Joint struct {
	Kind Kind

	Child *Bone

	// offsets relative to each node's own position.
	ParentOffset         lin.V3
	originalParentOffset lin.V3
	childOffsetMag       float64

	SpringConstant float64
	MinRadius      float64
	MaxRadius      float64

	ball *ballState // set only for KindBall joints.
}

type ballState struct {
	originalChildRotation lin.Q // inverse of the child's rotation at bind time.
}

// NewJoint creates a joint of the given kind with child, with
// parentOffset/childOffset given in the parent's and child's local
// frames respectively at bind time.
func NewJoint(kind Kind, child *Bone, parentOffset, childOffset lin.V3, springConstant, minRadius, maxRadius float64) *Joint {
	j := &Joint{
		Kind:                 kind,
		Child:                child,
		ParentOffset:         parentOffset,
		originalParentOffset: parentOffset,
		childOffsetMag:       childOffset.Len(),
		SpringConstant:       springConstant,
		MinRadius:            minRadius,
		MaxRadius:            maxRadius,
	}
	if kind == KindBall {
		j.ball = &ballState{originalChildRotation: *lin.NewQ().Inv(&child.node.Rotation)}
	}
	return j
}

// restrict moves (and for a ball joint, reorients) the child relative
// to parent, following Joint.restrict in joints.py exactly: a damped
// spring toward origin+direction*childOffsetMag when the child carries
// a physics body, otherwise a hard snap.
func (j *Joint) restrict(parent, child *scene.Node, dt float64, cfg *physics.PhysicsConfig) {
	origin := lin.NewV3().Add(&parent.Position, &j.ParentOffset)
	displacement := lin.NewV3().Sub(&child.Position, origin)
	if displacement.Len() < 1e-7 {
		return
	}
	direction := displacement.Unit()

	if child.Body != nil {
		j.springStep(parent, child, *direction, *origin, dt, cfg)
	} else {
		child.SetPosition(*lin.NewV3().Add(origin, lin.NewV3().Scale(direction, j.childOffsetMag)))
	}

	if j.Kind == KindBall {
		j.orientBall(parent, child)
	}
}

// springStep applies the critically-damped spring force from
// joints.py's restrict: force_spring + force_dampen, split 50/50 when
// both sides carry a physics body. The resulting acceleration is then
// integrated either with explicit Euler, or -- when
// cfg.UseRK4Springs is set -- with physics.RK4Step, the port of
// physics_handler.py's get_constant_rk4. joints.py keeps a real
// adaptive-acceleration rk4 variant of this step commented out ("TODO
// fix rk4 for springs"); that variant recomputes acceleration at each
// of the four stage positions, which get_constant_rk4 does not do, so
// RK4Step only improves on Euler's truncation error for a constant
// acceleration over the step -- it is not the commented-out code
// brought back, just the one rk4 primitive this module actually ports.
func (j *Joint) springStep(parent, child *scene.Node, direction, origin lin.V3, dt float64, cfg *physics.PhysicsConfig) {
	cb := child.Body
	sep := lin.NewV3().Sub(&origin, ptr(cb.Position()))
	stretch := sep.Len() - j.childOffsetMag

	springForce := lin.NewV3().Scale(&direction, -j.SpringConstant*stretch)
	cv := cb.Velocity()
	damp := math.Sqrt(j.SpringConstant * cb.Mass())
	dampForce := lin.NewV3().Scale(&cv, -2*damp)

	total := lin.NewV3().Add(springForce, dampForce)
	if parent.Body != nil && child.Body != nil {
		total.Scale(total, 0.5)
	}

	accel := *lin.NewV3().Scale(total, 1.0/cb.Mass())
	newV, newPos := integrateBody(cv, cb.Position(), accel, dt, cfg)
	cb.SetVelocity(newV)
	cb.SetPosition(newPos)
	child.SetPosition(newPos)

	if parent.Body != nil {
		pv := parent.Body.Velocity()
		pAccel := *lin.NewV3().Scale(total, -1.0/parent.Body.Mass())
		newPv, newPp := integrateBody(pv, parent.Body.Position(), pAccel, dt, cfg)
		parent.Body.SetVelocity(newPv)
		parent.Body.SetPosition(newPp)
		parent.SetPosition(newPp)
	}
}

// integrateBody advances velocity/position one step by accel, using
// physics.RK4Step when cfg selects it and explicit Euler otherwise.
func integrateBody(velocity, position, accel lin.V3, dt float64, cfg *physics.PhysicsConfig) (newVelocity, newPosition lin.V3) {
	if cfg != nil && cfg.UseRK4Springs {
		dPos, dVel := physics.RK4Step(dt, velocity, accel)
		newVelocity = *lin.NewV3().Add(&velocity, &dVel)
		newPosition = *lin.NewV3().Add(&position, &dPos)
		return newVelocity, newPosition
	}
	newVelocity = *lin.NewV3().Add(&velocity, lin.NewV3().Scale(&accel, dt))
	newPosition = *lin.NewV3().Add(&position, lin.NewV3().Scale(&newVelocity, dt))
	return newVelocity, newPosition
}

func ptr(v lin.V3) *lin.V3 { return &v }

// orientBall turns the child to face the parent, mirroring
// BallJoint.restrict: the axis-angle difference between the bind-time
// forward vector and the current offset becomes the child's new
// rotation, falling back to the Y axis when that axis is degenerate.
func (j *Joint) orientBall(parent, child *scene.Node) {
	currentOffset := lin.NewV3().Sub(&parent.Position, &child.Position)
	if currentOffset.Len() < 1e-6 {
		return
	}
	currentOffset = currentOffset.Unit()

	negOffset := lin.NewV3().Scale(&j.originalParentOffset, -1)
	currentForward := rotateByQuat(&j.ball.originalChildRotation, *negOffset).Unit()

	axis := lin.NewV3().Cross(currentForward, currentOffset)
	cosAngle := currentForward.Dot(currentOffset)
	switch {
	case cosAngle > 1:
		cosAngle = 1
	case cosAngle < -1:
		cosAngle = -1
	}
	angle := math.Acos(cosAngle)

	if axis.Len() < 1e-6 {
		axis = &lin.V3{X: 0, Y: 1, Z: 0}
	} else {
		axis = axis.Unit()
	}

	turn := lin.NewQ().SetAa(axis.X, axis.Y, axis.Z, angle)
	inv := lin.NewQ().Inv(turn)
	child.SetRotation(*lin.NewQ().Mult(inv, &j.ball.originalChildRotation))
}

// rotateByQuat rotates vector v by quaternion q: q*(0,v)*q^-1.
func rotateByQuat(q *lin.Q, v lin.V3) *lin.V3 {
	qv := lin.NewQ().MultQV(q, &v)
	inv := lin.NewQ().Inv(q)
	res := lin.NewQ().Mult(qv, inv)
	return &lin.V3{X: res.X, Y: res.Y, Z: res.Z}
}

// rotateParentOffset rotates the bind-time parent offset by the
// parent's accumulated rotation since bind time, matching
// Joint.rotate_parent_offset.
func (j *Joint) rotateParentOffset(deltaRotation lin.Q) {
	inv := lin.NewQ().Inv(&deltaRotation)
	rotated := rotateByQuat(inv, j.originalParentOffset)
	j.ParentOffset = *rotated
}
