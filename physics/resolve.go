// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"log/slog"
	"math"

	"github.com/jcoffelt/basilisk/math/lin"
)

// resolveContacts runs position correction followed by sequential
// impulses for a single colliding body pair, following §4.8 of the
// data model exactly. It supersedes the teacher's pbd_simulate
// (position-based dynamics) with the impulse solver the specification
// calls for; the manifold itself still comes from the teacher's own
// clipping_get_contact_manifold.
func resolveContacts(cfg *PhysicsConfig, a, b *Body, contacts []collider_Contact) {
	if len(contacts) == 0 {
		return
	}
	correctPenetration(a, b, contacts)

	if a.inverse_mass == 0 && b.inverse_mass == 0 {
		return // neither side has a body capable of responding to impulses.
	}

	staticMu, kineticMu := combinedFriction(a, b)
	e := combinedRestitution(a, b)
	n := contacts[0].normal // every contact in a manifold shares the EPA normal.

	for _, c := range contacts {
		applyImpulse(cfg, a, b, n, c, e, staticMu, kineticMu, len(contacts))
	}
}

// correctPenetration separates a and b along the contact normal,
// splitting the correction by mass class: a static/dynamic pair moves
// only the dynamic side; a dynamic/dynamic pair splits the correction
// 50/50, matching collider_handler.py's resolve_collisions exactly.
func correctPenetration(a, b *Body, contacts []collider_Contact) {
	// All contacts in one manifold were produced against the same pair
	// and normal/penetration-depth combination; use the first one.
	n := contacts[0].normal
	// EPA does not store penetration per contact point -- clipping only
	// carries the normal -- so the correction uses the first contact's
	// implied depth via the collision_point pair's separation along n.
	c := contacts[0]
	sep := lin.NewV3().Sub(&c.collision_point2, &c.collision_point1)
	depth := math.Abs(sep.Dot(&n))
	if depth == 0 {
		return
	}

	aStatic, bStatic := a.fixed || a.inverse_mass == 0, b.fixed || b.inverse_mass == 0
	move := lin.NewV3().Scale(&n, depth)
	switch {
	case aStatic && !bStatic:
		np := lin.NewV3().Add(&b.world_position, move)
		b.SetPosition(*np)
	case !aStatic && bStatic:
		np := lin.NewV3().Sub(&a.world_position, move)
		a.SetPosition(*np)
	case !aStatic && !bStatic:
		half := lin.NewV3().Scale(move, 0.5)
		na := lin.NewV3().Sub(&a.world_position, half)
		nb := lin.NewV3().Add(&b.world_position, half)
		a.SetPosition(*na)
		b.SetPosition(*nb)
	}
}

// applyImpulse implements the normal + friction impulse pair of §4.8
// for a single contact point, dividing the impulse evenly across
// numContacts when the manifold has more than one point.
func applyImpulse(cfg *PhysicsConfig, a, b *Body, n lin.V3, c collider_Contact, e, staticMu, kineticMu float64, numContacts int) {
	contact := lin.NewV3().Lerp(&c.collision_point1, &c.collision_point2, 0.5)
	rA := *lin.NewV3().Sub(contact, &a.world_position)
	rB := *lin.NewV3().Sub(contact, &b.world_position)

	vA := pointVelocity(a, rA)
	vB := pointVelocity(b, rB)
	vRel := lin.NewV3().Sub(vB, vA)
	vN := vRel.Dot(&n)
	if vN > 0 {
		return // separating; no impulse, no friction.
	}

	invIA, invIB := lin.NewM3(), lin.NewM3()
	if a.inverse_mass != 0 {
		*invIA = get_dynamic_inverse_inertia_tensor(a)
	}
	if b.inverse_mass != 0 {
		*invIB = get_dynamic_inverse_inertia_tensor(b)
	}

	K := a.inverse_mass + b.inverse_mass + angularTermK(invIA, rA, n) + angularTermK(invIB, rB, n)
	if K == 0 {
		return
	}
	jN := -(1 + e) * vN / K
	J := lin.NewV3().Scale(&n, jN)

	vT := lin.NewV3().Sub(vRel, lin.NewV3().Scale(&n, vN))
	speedT := vT.Len()
	var friction *lin.V3
	switch {
	case speedT < cfg.TangentVelocityStaticEpsilon:
		friction = lin.NewV3()
	case speedT < cfg.TangentVelocityKineticEpsilon:
		dir := lin.NewV3().Scale(vT, 1.0/speedT)
		friction = lin.NewV3().Scale(dir, -staticMu*math.Abs(jN))
	default:
		dir := lin.NewV3().Scale(vT, 1.0/speedT)
		friction = lin.NewV3().Scale(dir, -kineticMu*math.Abs(jN))
	}

	total := lin.NewV3().Add(J, friction)
	total.Scale(total, 1.0/float64(numContacts))
	snapImpulse(total)

	applyImpulseToBody(a, invIA, rA, total, -1)
	applyImpulseToBody(b, invIB, rB, total, 1)
}

// snapImpulse rounds every impulse component to the nearest multiple
// of 1e-3 (so components below 5e-4 become zero) to curb jitter on
// resting contacts, a stability knob named in §4.8.
func snapImpulse(j *lin.V3) {
	const step = 1e-3
	j.X = math.Round(j.X/step) * step
	j.Y = math.Round(j.Y/step) * step
	j.Z = math.Round(j.Z/step) * step
}

func angularTermK(invI *lin.M3, r, n lin.V3) float64 {
	rxn := lin.NewV3().Cross(&r, &n)
	rot := lin.NewV3().MultMv(invI, rxn)
	cross := lin.NewV3().Cross(rot, &r)
	return n.Dot(cross)
}

func pointVelocity(b *Body, r lin.V3) *lin.V3 {
	v := lin.NewV3()
	if b.inverse_mass == 0 && b.fixed {
		return v
	}
	wxr := lin.NewV3().Cross(&b.angular_velocity, &r)
	v.Add(&b.linear_velocity, wxr)
	return v
}

// applyImpulseToBody updates linear and angular velocity by the given
// impulse, signed by sign (-1 for the "A" side, +1 for "B", matching
// the opposing reaction directions in §4.8).
func applyImpulseToBody(b *Body, invI *lin.M3, r lin.V3, impulse *lin.V3, sign float64) {
	if b.fixed || b.inverse_mass == 0 {
		return
	}
	signedImpulse := lin.NewV3().Scale(impulse, sign)
	dv := lin.NewV3().Scale(signedImpulse, b.inverse_mass)
	b.linear_velocity.Add(&b.linear_velocity, dv)

	rxj := lin.NewV3().Cross(&r, signedImpulse)
	dw := lin.NewV3().MultMv(invI, rxj)
	newAngular := lin.NewV3().Add(&b.angular_velocity, dw)
	b.SetAngularVelocity(*newAngular)
}

// warnIfDegenerate logs (never panics) when a contact manifold carries
// a zero normal, the numeric-error recovery path named in §7.
func warnIfDegenerate(n lin.V3) bool {
	if n.LenSqr() < 1e-12 {
		slog.Debug("resolve: degenerate contact normal, skipping")
		return true
	}
	return false
}
