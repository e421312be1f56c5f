// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package sim ties physics, scene and skeleton into the single
// per-tick entry point the data model names: gravity/integration, the
// scene graph pass, the skeleton restriction pass, then broad/narrow
// phase collision resolution (§2, §4.1). It exists because physics
// cannot import scene (scene already imports physics) and neither can
// import skeleton without a cycle -- Step is the one place allowed to
// see all three.
//
// Grounded on physics_handler.py's own update, which runs the same
// four stages in this order every tick:
//
//	self.scene.collection_handler.update(delta_time) # movement
//	self.scene.skeleton_handler.update(delta_time)   # skeleton restrictions
//	self.scene.collider_handler.resolve_collisions() # collisions
package sim

import (
	"github.com/jcoffelt/basilisk/physics"
	"github.com/jcoffelt/basilisk/scene"
	"github.com/jcoffelt/basilisk/skeleton"
)

// Step advances world, tree and skel by dt in the order the data
// model mandates: gravity/integration, scene graph composition,
// skeleton restriction, then collision resolution. skel may be nil
// when the scene has no bone hierarchy, matching physics_handler.py's
// own early-return when a scene carries no skeleton_handler.
func Step(world *physics.World, tree *scene.Tree, skel *skeleton.Skeleton, dt float64) {
	if !world.IntegrateBodies(dt) {
		return
	}
	tree.Update(world.Config)
	if skel != nil {
		skel.Update(dt, world.Config)
	}
	world.ResolveCollisions()
}
