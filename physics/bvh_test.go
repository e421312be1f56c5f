// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
)

func TestAboxOverlaps(t *testing.T) {
	a := Abox{Sx: 0, Sy: 0, Sz: 0, Lx: 1, Ly: 1, Lz: 1}
	b := Abox{Sx: 0.5, Sy: 0.5, Sz: 0.5, Lx: 2, Ly: 2, Lz: 2}
	c := Abox{Sx: 5, Sy: 5, Sz: 5, Lx: 6, Ly: 6, Lz: 6}
	if !a.Overlaps(&b) {
		t.Errorf("expected a and b to overlap")
	}
	if a.Overlaps(&c) {
		t.Errorf("expected a and c not to overlap")
	}
}

func TestBVHCandidatePairsFindsOverlappingSpheres(t *testing.T) {
	a := NewSphere(1, 1, false)
	a.SetPosition(lin.V3{X: 0, Y: 0, Z: 0})
	b := NewSphere(1, 1, false)
	b.SetPosition(lin.V3{X: 1.5, Y: 0, Z: 0})
	c := NewSphere(1, 1, false)
	c.SetPosition(lin.V3{X: 50, Y: 0, Z: 0})

	var bvh BVH
	bodies := []*Body{a, b, c}
	bvh.Rebuild(bodies, 0)
	pairs := bvh.CandidatePairs(bodies)

	found := false
	for _, p := range pairs {
		if (p.BodyA == 0 && p.BodyB == 1) || (p.BodyA == 1 && p.BodyB == 0) {
			found = true
		}
		if p.BodyA == 2 || p.BodyB == 2 {
			t.Errorf("expected the distant sphere to have no candidate pairs, got %+v", p)
		}
	}
	if !found {
		t.Errorf("expected the two close spheres to produce a candidate pair")
	}
}

func TestBVHCandidatePairsExcludesStaticStatic(t *testing.T) {
	a := NewSphere(1, 1, true)
	b := NewSphere(1, 1, true)
	b.SetPosition(lin.V3{X: 0.5, Y: 0, Z: 0})

	var bvh BVH
	bodies := []*Body{a, b}
	bvh.Rebuild(bodies, 0)
	pairs := bvh.CandidatePairs(bodies)
	if len(pairs) != 0 {
		t.Errorf("expected no pairs between two static bodies, got %d", len(pairs))
	}
}

func TestBVHRebuildEmpty(t *testing.T) {
	var bvh BVH
	bvh.Rebuild(nil, 0)
	if pairs := bvh.CandidatePairs(nil); len(pairs) != 0 {
		t.Errorf("expected no pairs from an empty world, got %d", len(pairs))
	}
}
