// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"github.com/jcoffelt/basilisk/math/lin"
)

// Collider is the convex-hull/sphere collision shape used internally
// by Body. It is exported separately so a scene.Node can carry one
// without owning a full Body, mirroring BasiliskEngine's Single class
// (scripts/collections/single.py), where a leaf's collider is a field
// distinct from its optional physics_body and is kept in sync by the
// parent's composed world pose even when no body drives it.
type Collider collider

// NewSphereCollider creates a standalone sphere collider, for a scene
// leaf with no physics body of its own (e.g. a trigger volume).
func NewSphereCollider(radius float64) *Collider {
	c := collider_sphere_create(float32(radius))
	return (*Collider)(&c)
}

// NewBoxCollider creates a standalone box collider from half-extents,
// sharing the same vertex data NewBox gives a physics body.
func NewBoxCollider(hx, hy, hz float64) *Collider {
	vertexes, indexes := boxVertexData(hx, hy, hz)
	c := collider_convex_hull_create(vertexes, indexes)
	return (*Collider)(&c)
}

// UpdatePose refreshes the collider's transformed vertices/face
// normals (or sphere center) to the given world translation and
// rotation, mirroring colliders_update -- the same refresh a Body
// runs on its own colliders every tick.
func (c *Collider) UpdatePose(translation lin.V3, rotation lin.Q) {
	collider_update((*collider)(c), translation, &rotation)
}

// AlignedInertia returns the collider's local-frame inertia tensor
// (not inverted) scaled by mass, following single.py's
// define_inverse_inertia: the per-vertex moment sum divided by vertex
// count for a box (hull) collider, and 2/5*mass*r^2 on the diagonal for
// a sphere collider. mass defaults to 1 when zero or negative, matching
// define_inverse_inertia's "1 if no physics_body" fallback.
func (c *Collider) AlignedInertia(mass float64) lin.M3 {
	if mass <= 0 {
		mass = 1
	}
	return colliders_get_default_inertia_tensor([]collider{collider(*c)}, mass)
}
