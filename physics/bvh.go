// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"sort"
)

// Abox is the world-space axis-aligned bounding box of a collider. It is
// named and shaped after the old entity.go-era Abox (Sx,Sy,Sz small
// corner; Lx,Ly,Lz large corner; Overlaps test) so the broad phase
// keeps that box-vs-box vocabulary even though the shape system
// underneath it is now the convex-hull collider, not the cgo Shape
// interface.
type Abox struct {
	Sx, Sy, Sz float64 // min corner.
	Lx, Ly, Lz float64 // max corner.
}

// Overlaps reports whether box a intersects box b.
func (a *Abox) Overlaps(b *Abox) bool {
	return a.Lx >= b.Sx && a.Sx <= b.Lx &&
		a.Ly >= b.Sy && a.Sy <= b.Ly &&
		a.Lz >= b.Sz && a.Sz <= b.Lz
}

// Union returns the smallest box containing both a and b.
func (a *Abox) Union(b *Abox) Abox {
	return Abox{
		Sx: min(a.Sx, b.Sx), Sy: min(a.Sy, b.Sy), Sz: min(a.Sz, b.Sz),
		Lx: max(a.Lx, b.Lx), Ly: max(a.Ly, b.Ly), Lz: max(a.Lz, b.Lz),
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// colliderAabb computes the world-space AABB of a collider's current
// transformed vertices (or its sphere), expanded by broadPhaseEpsilon
// on every side -- this is the "broad_phase_epsilon" slack named in
// the data model, giving resting contacts a little room before they
// drop out of the broad phase entirely.
func colliderAabb(c *collider, epsilon float64) Abox {
	var box Abox
	switch c.ctype {
	case collider_TYPE_SPHERE:
		r := float64(c.sphere.radius)
		box = Abox{
			Sx: c.sphere.center.X - r, Sy: c.sphere.center.Y - r, Sz: c.sphere.center.Z - r,
			Lx: c.sphere.center.X + r, Ly: c.sphere.center.Y + r, Lz: c.sphere.center.Z + r,
		}
	case collider_TYPE_CONVEX_HULL:
		verts := c.convex_hull.transformed_vertices
		if len(verts) == 0 {
			return box
		}
		box = Abox{Sx: verts[0].X, Sy: verts[0].Y, Sz: verts[0].Z, Lx: verts[0].X, Ly: verts[0].Y, Lz: verts[0].Z}
		for i := 1; i < len(verts); i++ {
			v := verts[i]
			box.Sx, box.Sy, box.Sz = min(box.Sx, v.X), min(box.Sy, v.Y), min(box.Sz, v.Z)
			box.Lx, box.Ly, box.Lz = max(box.Lx, v.X), max(box.Ly, v.Y), max(box.Lz, v.Z)
		}
	}
	box.Sx, box.Sy, box.Sz = box.Sx-epsilon, box.Sy-epsilon, box.Sz-epsilon
	box.Lx, box.Ly, box.Lz = box.Lx+epsilon, box.Ly+epsilon, box.Lz+epsilon
	return box
}

// bvhLeaf is one collider's world AABB plus a back-reference used to
// report pairs to the caller.
type bvhLeaf struct {
	box     Abox
	bodyIdx int
	colIdx  int
}

// bvhNode is either an internal node (left/right set, leaf == -1) or a
// leaf (leaf >= 0, indexing into the BVH's leaves slice).
type bvhNode struct {
	box         Abox
	left, right int // indexes into BVH.nodes; -1 if none.
	leaf        int // index into BVH.leaves; -1 for internal nodes.
}

// BVH is a binary bounding-volume hierarchy over collider AABBs used
// for broad-phase candidate-pair generation (§4.5 of the data model).
// No source in the retrieved corpus implements a real BVH -- the
// teacher's own broad.go is a naive O(n^2) bounding-sphere check -- so
// this is authored fresh, using the teacher's Abox vocabulary and a
// conventional top-down median-split build.
type BVH struct {
	nodes  []bvhNode
	leaves []bvhLeaf
	root   int
}

// Rebuild constructs the tree from scratch over the given colliders,
// where colliders[i] belongs to body i. Static-static pairs are never
// useful so both static and dynamic colliders are included here; the
// caller filters static-static pairs out of the reported pairs.
func (h *BVH) Rebuild(bodies []*Body, epsilon float64) {
	h.nodes = h.nodes[:0]
	h.leaves = h.leaves[:0]
	for bi, b := range bodies {
		for ci := range b.colliders {
			box := colliderAabb(&b.colliders[ci], epsilon)
			h.leaves = append(h.leaves, bvhLeaf{box: box, bodyIdx: bi, colIdx: ci})
		}
	}
	if len(h.leaves) == 0 {
		h.root = -1
		return
	}
	idx := make([]int, len(h.leaves))
	for i := range idx {
		idx[i] = i
	}
	h.root = h.build(idx)
}

// build recursively partitions leaf indexes leafIdx by a median split
// along the axis of largest combined extent, returning the index of
// the node covering them in h.nodes.
func (h *BVH) build(leafIdx []int) int {
	if len(leafIdx) == 1 {
		li := leafIdx[0]
		h.nodes = append(h.nodes, bvhNode{box: h.leaves[li].box, left: -1, right: -1, leaf: li})
		return len(h.nodes) - 1
	}

	union := h.leaves[leafIdx[0]].box
	for _, li := range leafIdx[1:] {
		union = union.Union(&h.leaves[li].box)
	}

	ex, ey, ez := union.Lx-union.Sx, union.Ly-union.Sy, union.Lz-union.Sz
	axis := 0 // 0=x, 1=y, 2=z
	longest := ex
	if ey > longest {
		axis, longest = 1, ey
	}
	if ez > longest {
		axis = 2
	}

	sort.Slice(leafIdx, func(i, j int) bool {
		return centerOf(h.leaves[leafIdx[i]].box, axis) < centerOf(h.leaves[leafIdx[j]].box, axis)
	})
	mid := len(leafIdx) / 2
	leftIdx := h.build(leafIdx[:mid])
	rightIdx := h.build(leafIdx[mid:])

	node := bvhNode{box: union, left: leftIdx, right: rightIdx, leaf: -1}
	h.nodes = append(h.nodes, node)
	return len(h.nodes) - 1
}

func centerOf(b Abox, axis int) float64 {
	switch axis {
	case 0:
		return (b.Sx + b.Lx) * 0.5
	case 1:
		return (b.Sy + b.Ly) * 0.5
	default:
		return (b.Sz + b.Lz) * 0.5
	}
}

// BodyColliderPair identifies one collider on each of two distinct
// bodies whose world AABBs overlap.
type BodyColliderPair struct {
	BodyA, ColliderA int
	BodyB, ColliderB int
}

// CandidatePairs walks the tree and returns every pair of leaves whose
// boxes overlap, excluding a leaf from pairing with another leaf on
// the same body and excluding static-static pairs (§4.5 output
// filter). Every pair with overlapping AABBs is returned: soundness of
// this traversal is a tested invariant.
func (h *BVH) CandidatePairs(bodies []*Body) []BodyColliderPair {
	var pairs []BodyColliderPair
	if h.root < 0 {
		return pairs
	}
	for li := range h.leaves {
		h.queryLeaf(h.root, li, bodies, &pairs)
	}
	return pairs
}

func (h *BVH) queryLeaf(nodeIdx, li int, bodies []*Body, out *[]BodyColliderPair) {
	if nodeIdx < 0 {
		return
	}
	node := &h.nodes[nodeIdx]
	leaf := &h.leaves[li]
	if !node.box.Overlaps(&leaf.box) {
		return
	}
	if node.leaf >= 0 {
		if node.leaf <= li {
			return // report each unordered pair once; skip self.
		}
		other := &h.leaves[node.leaf]
		if other.bodyIdx == leaf.bodyIdx {
			return
		}
		if !leaf.box.Overlaps(&other.box) {
			return
		}
		if bodies[leaf.bodyIdx].fixed && bodies[other.bodyIdx].fixed {
			return
		}
		*out = append(*out, BodyColliderPair{
			BodyA: leaf.bodyIdx, ColliderA: leaf.colIdx,
			BodyB: other.bodyIdx, ColliderB: other.colIdx,
		})
		return
	}
	h.queryLeaf(node.left, li, bodies, out)
	h.queryLeaf(node.right, li, bodies, out)
}
