// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"github.com/jcoffelt/basilisk/math/lin"
)

// Body is the rigid body this package's geometry and solver code was
// always written against but never shipped with: pbd.go, physics.go,
// broad.go and physics_util.go all reference a Body with these exact
// field names. It is authored fresh here, grounded on those call
// sites plus the naming conventions of the old entity.go-derived
// body (applyGravity, integrateVelocities, clearForces, Push/Turn)
// and BasiliskEngine's physics_body_handler.py (PhysicsBody.velocity,
// rotational_velocity, axis_of_rotation).
type Body struct {
	id bid

	fixed bool // true for static/kinematic bodies: never integrated, never pushed.

	world_position lin.V3
	world_rotation lin.Q

	colliders []collider

	mass         float64
	inverse_mass float64

	// angular velocity stored as axis + speed, matching the data model's
	// "axis-angle pair" rather than a raw vector -- avoids re-deriving
	// the axis every tick when the body is at rest.
	linear_velocity  lin.V3
	angular_axis     lin.V3 // unit axis; (1,0,0) when at rest.
	angular_speed    float64
	angular_velocity lin.V3 // cached axis*speed, refreshed by SetAngularVelocity.

	aligned_inverse_inertia lin.M3 // local-frame inverse inertia, fixed at creation.
	inverse_inertia_tensor  lin.M3 // == aligned_inverse_inertia, kept for physics_util.go's naming.
	inertia_tensor          lin.M3 // local-frame inertia (non-inverted), for get_dynamic_inertia_tensor.

	static_friction_coefficient  float64
	dynamic_friction_coefficient float64
	restitution_coefficient     float64

	bounding_sphere_radius float64

	forces []appliedForce
}

// appliedForce is a single force contribution accumulated between ticks.
// physics_util.go sums these by `.newtons` and torques them by `.position`.
type appliedForce struct {
	position lin.V3 // world-space application point, relative to body origin.
	newtons  lin.V3
}

// body_create_ex mirrors the construction signature NewSphere/NewBox
// already call in physics.go, before the Body type existed.
func body_create_ex(world_position lin.V3, world_rotation lin.Q, world_scale lin.V3, mass float64,
	colliders []collider, static_friction, dynamic_friction, restitution float64, static bool) *Body {

	b := &Body{
		id:                           nextBodyID(),
		fixed:                        static,
		world_position:               world_position,
		world_rotation:               world_rotation,
		colliders:                    colliders,
		mass:                         mass,
		static_friction_coefficient:  static_friction,
		dynamic_friction_coefficient: dynamic_friction,
		restitution_coefficient:      restitution,
		angular_axis:                 lin.V3{X: 1, Y: 0, Z: 0},
	}
	if static || mass <= 0 {
		b.inverse_mass = 0
	} else {
		b.inverse_mass = 1.0 / mass
	}
	b.inertia_tensor = colliders_get_default_inertia_tensor(colliders, mass)
	b.aligned_inverse_inertia = *lin.NewM3().Inv(&b.inertia_tensor)
	b.inverse_inertia_tensor = b.aligned_inverse_inertia
	if static {
		b.aligned_inverse_inertia = lin.M3{}
		b.inverse_inertia_tensor = lin.M3{}
	}
	b.bounding_sphere_radius = colliders_get_bounding_sphere_radius(colliders)
	colliders_update(b.colliders, b.world_position, &b.world_rotation)
	return b
}

var bodyIDCounter bid

func nextBodyID() bid {
	bodyIDCounter++
	return bodyIDCounter
}

// AddForce records a force, in newtons, applied at the given world-space
// position. When relative is true, position is already expressed
// relative to the body's center of mass; otherwise it is offset by the
// body's current world position first.
func (b *Body) AddForce(position, newtons lin.V3, relative bool) {
	if b.fixed {
		return
	}
	if !relative {
		position.Sub(&position, &b.world_position)
	}
	b.forces = append(b.forces, appliedForce{position: position, newtons: newtons})
}

// clear_forces drops all forces accumulated this tick; called at the
// end of ResolveCollisions once integration has consumed them.
func (b *Body) clear_forces() { b.forces = b.forces[:0] }

// IsStatic reports whether the body is static, i.e. excluded from
// integration.
func (b *Body) IsStatic() bool { return b.fixed }

// Position returns the body's current world-space position.
func (b *Body) Position() lin.V3 { return b.world_position }

// SetPosition teleports the body, refreshing its collider cache.
func (b *Body) SetPosition(p lin.V3) {
	b.world_position = p
	colliders_update(b.colliders, b.world_position, &b.world_rotation)
}

// Rotation returns the body's current orientation.
func (b *Body) Rotation() lin.Q { return b.world_rotation }

// SetVelocity sets the linear velocity directly (joints, resets).
func (b *Body) SetVelocity(v lin.V3) { b.linear_velocity = v }

// Velocity returns the current linear velocity.
func (b *Body) Velocity() lin.V3 { return b.linear_velocity }

// Mass returns the mass the body was created with, static or not.
func (b *Body) Mass() float64 { return b.mass }

// SetAngularVelocity stores angular_velocity as an axis+speed pair,
// snapping to a zero-speed canonical axis below 1e-6 rad/s to avoid
// propagating NaNs through normalize(0,0,0).
func (b *Body) SetAngularVelocity(v lin.V3) {
	speed := v.Len()
	if speed < 1e-6 {
		b.angular_axis = lin.V3{X: 1, Y: 0, Z: 0}
		b.angular_speed = 0
		b.angular_velocity = lin.V3{}
		return
	}
	axis := v
	axis.Scale(&axis, 1.0/speed)
	b.angular_axis = axis
	b.angular_speed = speed
	b.angular_velocity = v
}

// AngularVelocity returns the current angular velocity vector.
func (b *Body) AngularVelocity() lin.V3 { return b.angular_velocity }

// AlignedInverseInertia returns the body's local-frame inverse inertia
// tensor, fixed at creation -- the value a Node mirrors onto itself
// for a Leaf this body drives, per §4.4.
func (b *Body) AlignedInverseInertia() lin.M3 { return b.aligned_inverse_inertia }

// DynamicInverseInertia returns the world-space inverse inertia tensor
// at the body's current orientation, R * I^-1 * R^T.
func (b *Body) DynamicInverseInertia() lin.M3 { return get_dynamic_inverse_inertia_tensor(b) }

// integrateVelocities applies accumulated forces/torques over dt,
// grounded on the old entity.go body's integrateVelocities but against
// the convex-hull collider's dynamic inertia instead of a diagonal iit.
func (b *Body) integrateVelocities(dt float64) {
	if b.fixed || b.inverse_mass == 0 {
		return
	}
	force := calculate_external_force(b)
	torque := calculate_external_torque(b)

	dv := lin.NewV3().Scale(&force, b.inverse_mass*dt)
	b.linear_velocity.Add(&b.linear_velocity, dv)

	invI := get_dynamic_inverse_inertia_tensor(b)
	dw := lin.NewV3().MultMv(&invI, &torque)
	dw.Scale(dw, dt)
	newAngular := lin.NewV3().Add(&b.angular_velocity, dw)
	b.SetAngularVelocity(*newAngular)
}

// integrateTransform advances position and orientation by the current
// velocities over dt using the constant-axis/constant-speed quaternion
// update shared with the scene graph (see lin.T.Integrate).
func (b *Body) integrateTransform(dt float64) {
	if b.fixed {
		return
	}
	t := lin.NewT().SetVQ(&b.world_position, &b.world_rotation)
	next := lin.NewT().Integrate(t, &b.linear_velocity, &b.angular_velocity, dt)
	b.world_position = *next.Loc
	b.world_rotation = *next.Rot.Unit()
}

// applyGravityAndAccelerations adds the configured world accelerations
// as forces at the body's center of mass, mirroring the old
// applyGravity plus physics.go's hard-coded GRAVITY constant -- except
// accelerations are now data, not a literal.
func (b *Body) applyGravityAndAccelerations(cfg *PhysicsConfig) {
	if b.fixed || b.inverse_mass == 0 {
		return
	}
	for _, a := range cfg.Accelerations {
		force := lin.NewV3().Scale(&a, b.mass)
		b.AddForce(b.world_position, *force, false)
	}
}

// ResetMotion zeroes velocities, used on death-plane resets.
func (b *Body) ResetMotion() {
	b.linear_velocity = lin.V3{}
	b.SetAngularVelocity(lin.V3{})
}

// combinedRestitution mirrors the old body.go's combinedRestitution:
// the coefficient of restitution used by two colliding materials is
// the maximum of the two (the more elastic side wins), matching §4.8.
func combinedRestitution(a, b *Body) float64 {
	if a.restitution_coefficient > b.restitution_coefficient {
		return a.restitution_coefficient
	}
	return b.restitution_coefficient
}

// combinedFriction returns the (static, kinetic) coefficient pair used
// for a contact between a and b: the minimum of each side's
// coefficient, matching §4.8's "min(a.mu, b.mu)".
func combinedFriction(a, b *Body) (static, kinetic float64) {
	static = min(a.static_friction_coefficient, b.static_friction_coefficient)
	kinetic = min(a.dynamic_friction_coefficient, b.dynamic_friction_coefficient)
	return static, kinetic
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// util_get_model_matrix_no_scale composes a translation+rotation-only
// model matrix using the engine's non-standard sign convention: the
// rotation is built as though each axis were negated
// ((-1,0,0),(0,-1,0),(0,0,-1)): rotation is decomposed into axis and
// angle and rebuilt about the negated axis. This exact convention is confirmed against
// BasiliskEngine's collider_handler.py get_model_matrix and must be
// preserved bit-exactly for scene compatibility.
func util_get_model_matrix_no_scale(rotation *lin.Q, translation lin.V3) lin.M4 {
	ax, ay, az, angle := rotation.Aa()
	negAxis := lin.V3{X: -ax, Y: -ay, Z: -az}
	signed := lin.NewQ().SetAa(negAxis.X, negAxis.Y, negAxis.Z, angle)

	m4 := lin.NewM4().SetQ(signed)
	m4.TranslateTM(translation.X, translation.Y, translation.Z)
	return *m4
}
