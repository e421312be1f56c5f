// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package scene implements the hierarchical node tree that sits above
// the physics package: a tree of Group and Leaf nodes whose world
// poses compose from parent to child, each carrying dirty bits that
// gate which cached quantity gets recomputed after a physics step.
//
// It is grounded on BasiliskEngine's scripts/collections/collection.py
// and scripts/collections/single.py (Group and Leaf respectively),
// and on the teacher's pov.go for the position/orientation wrapper
// idiom (value-type composition, mutate-in-place methods returning the
// receiver).
package scene

import (
	"github.com/google/uuid"
	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
)

// Kind distinguishes a Group (has children) from a Leaf (has an
// optional mesh/collider/body), per §3 of the data model.
type Kind uint8

const (
	KindGroup Kind = iota
	KindLeaf
)

// dirty bitflags, consolidated per §9's Design Notes rather than kept
// as separate booleans scattered across getters/setters. Update reads
// these to decide which cached quantity actually needs recomputing
// this tick -- the model matrix still recomposes every tick (a node's
// own transform didn't change, but an ancestor's might have), while
// the collider pose refresh and the inertia composition, both
// genuinely expensive, are skipped unless the relevant bit is set,
// mirroring collection.py/single.py's own update_position/
// update_rotation/update_inertia guards.
type dirty uint8

const (
	dirtyPosition dirty = 1 << iota
	dirtyRotation
	dirtyScale
	dirtyInertia
)

// Node is one element of the scene graph. Children and parent are
// stored as arena indexes into the owning Tree's Nodes slice rather
// than pointers, per §9's note on avoiding ownership cycles.
type Node struct {
	ID       uuid.UUID
	Kind     Kind
	Parent   int // -1 for a root, or for a node created but not yet attached.
	Children []int

	Position lin.V3 // local position relative to Parent.
	Rotation lin.Q  // local orientation relative to Parent.
	Scale    lin.V3

	ModelMatrix lin.M4 // local-to-world, refreshed by Tree.Update.

	Body *physics.Body // non-nil exactly when this subtree's single body lives here.

	// Collider is a Leaf's optional collision shape, kept in sync with
	// the node's composed world pose even when the leaf carries no
	// Body of its own (e.g. a static trigger volume), mirroring
	// single.py's self.collider field and sync_data's propagation of
	// the parent's composed data into it.
	Collider *physics.Collider

	AlignedInverseInertia lin.M3 // local-frame inverse inertia (§4.4).
	InverseInertia        lin.M3 // runtime R * I^-1 * R^T, I already mass-weighted.

	dirty dirty
}

// SetPosition sets the node's local position and marks it dirty, so
// the next Update refreshes its collider pose. Code outside this
// package (e.g. the skeleton package's joint restriction) must go
// through this rather than writing Position directly, or the dirty
// bit won't be set and the collider pose will go stale.
func (n *Node) SetPosition(p lin.V3) {
	n.Position = p
	n.dirty |= dirtyPosition
}

// SetRotation sets the node's local rotation and marks it dirty, for
// the same reason as SetPosition.
func (n *Node) SetRotation(r lin.Q) {
	n.Rotation = r
	n.dirty |= dirtyRotation
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s lin.V3) {
	n.Scale = s
	n.dirty |= dirtyScale
}

// Tree owns every node and the list of root indexes walked each tick.
type Tree struct {
	Nodes []*Node
	Roots []int
}

// NewTree creates an empty scene graph.
func NewTree() *Tree { return &Tree{} }

// CreateGroup constructs a detached Group node without registering it
// in the tree -- no arena index, not linked into any parent's
// Children or into Roots. Mirrors collection_handler.py's
// create_collection: construct now, decide where (or whether) to link
// it in later via Attach. Use AddGroup when construct-and-link in one
// step is all that's needed.
func (t *Tree) CreateGroup() *Node { return newNode(KindGroup) }

// CreateLeaf is CreateGroup's Leaf-kind counterpart, mirroring
// create_collection_handler.py's create_single.
func (t *Tree) CreateLeaf() *Node { return newNode(KindLeaf) }

// Attach registers a node previously built with CreateGroup/CreateLeaf
// under parent (-1 for a new root) and returns its arena index,
// mirroring add_collection/add_single's append-to-self.collections
// half once the object already exists.
func (t *Tree) Attach(n *Node, parent int) int {
	n.Parent = parent
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	if parent < 0 {
		t.Roots = append(t.Roots, idx)
	} else {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}
	return idx
}

// AddGroup creates a Group node under parent (-1 for a new root) and
// returns its index in one step, mirroring add_collection.
func (t *Tree) AddGroup(parent int) int { return t.Attach(newNode(KindGroup), parent) }

// AddLeaf creates a Leaf node under parent (-1 for a new root) and
// returns its index in one step, mirroring add_single.
func (t *Tree) AddLeaf(parent int) int { return t.Attach(newNode(KindLeaf), parent) }

func newNode(kind Kind) *Node {
	return &Node{
		ID:       uuid.New(),
		Kind:     kind,
		Parent:   -1,
		Rotation: *lin.NewQI(),
		Scale:    lin.V3{X: 1, Y: 1, Z: 1},
		dirty:    dirtyPosition | dirtyRotation | dirtyScale | dirtyInertia,
	}
}

// SetBody attaches a rigid body to node idx, first clearing any body
// already present in the subtree so invariant (i) -- at most one
// active body per subtree -- holds.
func (t *Tree) SetBody(idx int, b *physics.Body) {
	t.RemovePhysicsBodies(idx)
	t.Nodes[idx].Body = b
	t.Nodes[idx].dirty |= dirtyInertia
}

// RemovePhysicsBodies recursively clears every body in the subtree
// rooted at idx, mirroring collection.py's remove_physics_bodies.
func (t *Tree) RemovePhysicsBodies(idx int) {
	n := t.Nodes[idx]
	n.Body = nil
	n.dirty |= dirtyInertia
	for _, c := range n.Children {
		t.RemovePhysicsBodies(c)
	}
}

// MarkPositionDirty, MarkRotationDirty and MarkScaleDirty set the
// named dirty bit on node idx. Components should call these instead of touching Position/Rotation/Scale directly so
// the next Update knows what to recompute.
func (t *Tree) MarkPositionDirty(idx int) { t.Nodes[idx].dirty |= dirtyPosition }
func (t *Tree) MarkRotationDirty(idx int) { t.Nodes[idx].dirty |= dirtyRotation }
func (t *Tree) MarkScaleDirty(idx int)    { t.Nodes[idx].dirty |= dirtyScale }

// Update recomposes model matrices top-down for every root and its
// descendants, syncing any body-owning node's local pose from its
// Body first, refreshing dirty colliders, and recomposing dirty
// inertia bottom-up once every descendant has been visited. Config
// supplies the death-plane reset target.
func (t *Tree) Update(cfg *physics.PhysicsConfig) {
	identity := lin.NewM4I()
	identityRot := lin.NewQI()
	for _, r := range t.Roots {
		t.updateSubtree(r, identity, identityRot, cfg)
	}
}

func (t *Tree) updateSubtree(idx int, parentModel *lin.M4, parentWorldRot *lin.Q, cfg *physics.PhysicsConfig) *lin.Q {
	n := t.Nodes[idx]

	if n.Body != nil {
		t.syncFromBody(n, cfg)
	}

	local := composeLocal(n.Position, &n.Rotation, n.Scale)
	model := lin.NewM4().Mult(parentModel, local)
	n.ModelMatrix = *model
	worldRot := lin.NewQ().Mult(parentWorldRot, &n.Rotation)

	// The collider representation carries no scale (see collider.go's
	// note on transformed_vertices), so only a position/rotation
	// change is worth the cost of collider_update's full vertex and
	// face-normal transform.
	if n.Collider != nil && n.dirty&(dirtyPosition|dirtyRotation) != 0 {
		worldPos := lin.V3{X: model.Wx, Y: model.Wy, Z: model.Wz}
		n.Collider.UpdatePose(worldPos, *worldRot)
	}

	for _, c := range n.Children {
		t.updateSubtree(c, model, worldRot, cfg)
	}

	// Inertia composes bottom-up (a Group needs its children's
	// already-current InverseInertia), so it runs after the recursion
	// above rather than before, and only when something in the
	// subtree actually marked it dirty: a pose or inertia bit on this
	// node, or a child whose inertia was just recomposed.
	if n.dirty&(dirtyPosition|dirtyRotation|dirtyScale|dirtyInertia) != 0 {
		t.updateInertia(n)
		if n.Parent >= 0 {
			t.Nodes[n.Parent].dirty |= dirtyInertia
		}
	}

	n.dirty = 0
	return worldRot
}

// syncFromBody pulls the body's integrated world position/orientation
// back into the node's local pose and applies the death-plane
// invariant. The body is the source of truth for motion; the node
// tree is the source of truth for hierarchy.
func (t *Tree) syncFromBody(n *Node, cfg *physics.PhysicsConfig) {
	n.Position = n.Body.Position()
	n.Rotation = n.Body.Rotation()
	n.dirty |= dirtyPosition | dirtyRotation

	respawn := cfg.LeafRespawn
	if n.Kind == KindGroup {
		respawn = cfg.GroupRespawn
	}
	if n.Position.Y < cfg.DeathPlane {
		n.Body.SetPosition(respawn)
		n.Body.ResetMotion()
		n.Position = respawn
	}
}

// updateInertia recomposes node n's inverse inertia, dispatching on
// Kind: a Leaf derives it from its Body or Collider directly, a Group
// composes it from its children via the parallel-axis sum, per §4.4.
func (t *Tree) updateInertia(n *Node) {
	if n.Kind == KindLeaf {
		t.updateLeafInertia(n)
		return
	}
	t.updateGroupInertia(n)
}

// updateLeafInertia mirrors single.py's define_inverse_inertia/
// get_inverse_inertia: a body-owning leaf mirrors its Body's own
// tensors directly, a collider-only leaf derives its aligned inertia
// from the collider's vertices with unit mass, and a leaf with
// neither carries no inertia at all.
func (t *Tree) updateLeafInertia(n *Node) {
	switch {
	case n.Body != nil:
		n.AlignedInverseInertia = n.Body.AlignedInverseInertia()
		n.InverseInertia = n.Body.DynamicInverseInertia()
	case n.Collider != nil:
		aligned := n.Collider.AlignedInertia(1)
		n.AlignedInverseInertia = *lin.NewM3().Inv(&aligned)
		rot := lin.NewM3().SetQ(&n.Rotation)
		aux := lin.NewM3().Mult(rot, &n.AlignedInverseInertia)
		n.InverseInertia = *aux.Mult(aux, lin.NewM3().Transpose(rot))
	default:
		n.AlignedInverseInertia = lin.M3{}
		n.InverseInertia = lin.M3{}
	}
}

// updateGroupInertia composes a Group's inverse inertia from its
// children's already-updated inverse inertia tensors via the
// parallel-axis sum in collection.py's define_inverse_inertia: each
// child contributes its own inertia tensor (recovered by inverting its
// InverseInertia) plus a parallel-axis correction for its offset from
// the group's own origin, (d.d)*I - d(x)d, averaged over the child
// count and inverted. Children with no inertia of their own (the
// zero-value sentinel) are skipped, matching the source's `if not
// inertia[0]: continue`.
func (t *Tree) updateGroupInertia(n *Node) {
	if len(n.Children) == 0 {
		n.AlignedInverseInertia = lin.M3{}
		n.InverseInertia = lin.M3{}
		return
	}

	sum := lin.NewM3()
	for _, ci := range n.Children {
		c := t.Nodes[ci]
		if c.InverseInertia == (lin.M3{}) {
			continue
		}
		childInertia := lin.NewM3().Inv(&c.InverseInertia)
		d := c.Position
		correction := lin.NewM3I().Scale(d.Dot(&d))
		correction.Sub(correction, outerProduct(d))
		childInertia.Add(childInertia, correction)
		sum.Add(sum, childInertia)
	}
	sum.Scale(1.0 / float64(len(n.Children)))

	n.AlignedInverseInertia = *lin.NewM3().Inv(sum)
	rot := lin.NewM3().SetQ(&n.Rotation)
	aux := lin.NewM3().Mult(rot, &n.AlignedInverseInertia)
	n.InverseInertia = *aux.Mult(aux, lin.NewM3().Transpose(rot))
}

func outerProduct(d lin.V3) *lin.M3 {
	return &lin.M3{
		Xx: d.X * d.X, Xy: d.X * d.Y, Xz: d.X * d.Z,
		Yx: d.Y * d.X, Yy: d.Y * d.Y, Yz: d.Y * d.Z,
		Zx: d.Z * d.X, Zy: d.Z * d.Y, Zz: d.Z * d.Z,
	}
}

// composeLocal builds the local-to-parent matrix using the same
// negated-axis-angle convention as the rigid body package's
// util_get_model_matrix_no_scale, confirmed against BasiliskEngine's
// collider_handler.py get_model_matrix. A Node's rotation is a single
// quaternion, the same representation physics.Body uses, so both
// packages decompose it into axis+angle and negate the axis before
// rebuilding the rotation matrix; this must stay bit-exact between
// the two packages or a body-driven node's rendered pose will diverge
// from its collider's.
func composeLocal(pos lin.V3, rot *lin.Q, scale lin.V3) *lin.M4 {
	ax, ay, az, angle := rot.Aa()
	signed := lin.NewQ().SetAa(-ax, -ay, -az, angle)

	m := lin.NewM4().SetQ(signed)
	m.ScaleMS(scale.X, scale.Y, scale.Z)
	m.TranslateTM(pos.X, pos.Y, pos.Z)
	return m
}
