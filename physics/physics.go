// Copyright © 2024 Galvanized Logic Inc.

// Package physics is a real-time simulation of rigid-body physics.
// Physics applies simulated forces to virtual 3D objects known as
// bodies, updates their locations and orientations, and resolves
// contacts between colliding convex hulls.
//
// Package physics is provided as part of the Basilisk 3D engine.
package physics

// physics.go exposes the physics API needed by the engine. The
// collision geometry (GJK, EPA, the convex-hull collider and its
// Sutherland-Hodgman clipping pass) was ported from
// https://github.com/felipeek/raw-physics, as documented in gjk.go,
// epa.go, collider.go, support.go and clipping.go. The driver below,
// the rigid body (rigidbody.go), the broad-phase BVH (bvh.go) and the
// impulse solver (resolve.go) are authored against BasiliskEngine's
// scripts/collisions/collider_handler.py, which resolves collisions
// with immediate position correction followed by an impulse pass
// rather than raw-physics' position-based dynamics.

import (
	"log/slog"

	"github.com/jcoffelt/basilisk/math/lin"
)

// maxStepSeconds bounds a single Simulate call; larger steps (e.g.
// after the host was paused) are skipped outright rather than
// integrated, avoiding tunneling through thin colliders.
const maxStepSeconds = 0.05

// World owns every body participating in the simulation along with
// its broad-phase acceleration structure and configuration. It
// replaces the teacher's package-level `bodies` variable (which made
// Simulate non-reentrant) with an explicit, owned collection.
type World struct {
	Config *PhysicsConfig
	bodies []*Body
	bvh    BVH

	// alreadyCollided mirrors collider_handler.py's per-tick dedup set:
	// a pair is resolved at most once per Simulate call.
	alreadyCollided map[bid]map[bid]bool
}

// NewWorld creates a simulation using cfg, or DefaultConfig() if cfg
// is nil.
func NewWorld(cfg *PhysicsConfig) *World {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &World{Config: cfg}
}

// Add registers a body with the world and returns it for convenience.
func (w *World) Add(b *Body) *Body {
	w.bodies = append(w.bodies, b)
	return b
}

// Bodies returns the world's current bodies, in addition order.
func (w *World) Bodies() []*Body { return w.bodies }

// Simulate advances every body in the world by timestep seconds:
// integrate accelerations and velocities, refresh collider caches,
// rebuild the broad phase, run narrow phase on every candidate pair,
// and resolve contacts. Steps longer than maxStepSeconds are skipped
// (§4.1). It is a convenience wrapper around IntegrateBodies followed
// immediately by ResolveCollisions, for callers with no scene graph or
// skeleton pass to interleave between the two (see the sim package's
// Step for the full ordering the data model mandates).
func (w *World) Simulate(timestep float64) {
	if !w.IntegrateBodies(timestep) {
		return
	}
	w.ResolveCollisions()
}

// IntegrateBodies applies gravity/accelerations and integrates every
// body's velocity and transform over timestep seconds, then applies
// the death-plane reset. It reports whether the step actually ran;
// timesteps outside (0, maxStepSeconds] are skipped outright (§4.1).
// This is the first phase of a tick, run before the scene graph and
// skeleton passes so that Body positions reflect this tick's motion by
// the time Tree.Update and Skeleton.Update read them.
func (w *World) IntegrateBodies(timestep float64) bool {
	if timestep <= 0 || timestep > maxStepSeconds {
		slog.Debug("physics: skipping oversized or non-positive step", "dt", timestep)
		return false
	}

	gjkMaxIterations = w.Config.GJKMaxIterations
	epaFaceVisibilityEpsilon = w.Config.EPAFaceEpsilon

	for _, b := range w.bodies {
		b.applyGravityAndAccelerations(w.Config)
	}
	for _, b := range w.bodies {
		b.integrateVelocities(timestep)
		b.integrateTransform(timestep)
		colliders_update(b.colliders, b.world_position, &b.world_rotation)
	}
	for _, b := range w.bodies {
		w.applyDeathPlane(b)
	}
	return true
}

// ResolveCollisions rebuilds the broad phase, runs narrow phase on
// every candidate pair, and resolves contacts with the sequential
// impulse solver. It is the last phase of a tick, run after the scene
// graph and skeleton passes so that joint-restricted positions are
// seen by collision detection.
func (w *World) ResolveCollisions() {
	w.bvh.Rebuild(w.bodies, w.Config.BroadPhaseEpsilon)
	pairs := w.bvh.CandidatePairs(w.bodies)

	w.alreadyCollided = map[bid]map[bid]bool{}
	for _, p := range pairs {
		a, b := w.bodies[p.BodyA], w.bodies[p.BodyB]
		if w.collided(a.id, b.id) {
			continue
		}
		contacts := collider_get_contacts(&a.colliders[p.ColliderA], &b.colliders[p.ColliderB], nil)
		if len(contacts) == 0 {
			continue
		}
		if warnIfDegenerate(contacts[0].normal) {
			continue
		}
		w.markCollided(a.id, b.id)
		resolveContacts(w.Config, a, b, contacts)
		// Resolution may have moved either body; refresh the caches
		// that the next candidate pair in this tick will read.
		colliders_update(a.colliders, a.world_position, &a.world_rotation)
		colliders_update(b.colliders, b.world_position, &b.world_rotation)
	}

	for _, b := range w.bodies {
		b.clear_forces()
	}
}

func (w *World) collided(a, b bid) bool {
	if m, ok := w.alreadyCollided[a]; ok {
		return m[b]
	}
	if m, ok := w.alreadyCollided[b]; ok {
		return m[a]
	}
	return false
}

func (w *World) markCollided(a, b bid) {
	if w.alreadyCollided[a] == nil {
		w.alreadyCollided[a] = map[bid]bool{}
	}
	w.alreadyCollided[a][b] = true
}

// applyDeathPlane resets a body that has fallen below the configured
// death plane, snapping it to LeafRespawn and zeroing its motion
// (invariant (iii) of the Node data model).
func (w *World) applyDeathPlane(b *Body) {
	if b.fixed {
		return
	}
	if b.world_position.Y < w.Config.DeathPlane {
		b.SetPosition(w.Config.LeafRespawn)
		b.ResetMotion()
	}
}

type bid uint32 // physics body id. Max 4 billion bodies.

// NewSphere creates a ball shaped physics body located at the origin.
// The sphere size is defined by the radius. The sphere can be static
// (unmovable) or dynamic (moveable).
func NewSphere(radius, mass float64, static bool) *Body {
	sphereCollider := collider_sphere_create(float32(radius))
	colliders := []collider{sphereCollider}
	return body_create_ex(lin.V3{}, *lin.NewQI(), lin.V3{X: 1, Y: 1, Z: 1}, mass, colliders, 0.5, 0.5, 0.0, static)
}

// NewBox creates a box shaped physics body located at the origin.
// The box size is given by the half-extents so that the actual size
// is w=2*hx, h=2*hy, d=2*hz. The box can be static (unmovable) or
// dynamic (moveable).
func NewBox(hx, hy, hz, mass float64, static bool) *Body {
	vertexes, indexes := boxVertexData(hx, hy, hz)
	boxCollider := collider_convex_hull_create(vertexes, indexes)
	colliders := []collider{boxCollider}
	return body_create_ex(lin.V3{}, *lin.NewQI(), lin.V3{X: 1, Y: 1, Z: 1}, mass, colliders, 0.5, 0.5, 0.0, static)
}

// boxVertexData returns the Blender 4.0.2 cube OBJ vertex/index data
// (Y-up Z-forward) shared by NewBox and NewBoxCollider, kept verbatim
// from the teacher's original NewBox.
func boxVertexData(hx, hy, hz float64) ([]lin.V3, []uint32) {
	vertexes := []lin.V3{
		{X: -hx, Y: +hy, Z: +hz}, // vertex 0
		{X: -hx, Y: -hy, Z: +hz}, // vertex 1
		{X: -hx, Y: +hy, Z: -hz}, // vertex 2
		{X: -hx, Y: -hy, Z: -hz}, // vertex 3
		{X: +hx, Y: +hy, Z: +hz}, // vertex 4
		{X: +hx, Y: -hy, Z: +hz}, // vertex 5
		{X: +hx, Y: +hy, Z: -hz}, // vertex 6
		{X: +hx, Y: -hy, Z: -hz}, // vertex 7
	}
	indexes := []uint32{
		4, 2, 0, // top
		4, 6, 2, // top
		2, 7, 3, // back
		2, 6, 7, // back
		6, 5, 7, // right
		6, 4, 5, // right
		1, 7, 5, // bottom
		1, 3, 7, // bottom
		0, 3, 1, // left
		0, 2, 3, // left
		4, 1, 5, // front
		4, 0, 1, // front
	}
	return vertexes, indexes
}

// v2Int is a 2 element integer vector.
type v2Int struct {
	x uint32
	y uint32
}

// v3Int is a 3 element integer vector.
type v3Int struct {
	x uint32
	y uint32
	z uint32
}

// v4Int is a 4 element integer vector.
type v4Int struct {
	x uint32
	y uint32
	z uint32
	w uint32
}
