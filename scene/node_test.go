// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package scene

import (
	"testing"

	"github.com/jcoffelt/basilisk/math/lin"
	"github.com/jcoffelt/basilisk/physics"
)

func TestAddGroupAndLeafWireParentChild(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	l := tr.AddLeaf(g)
	if len(tr.Roots) != 1 || tr.Roots[0] != g {
		t.Errorf("expected the group to be the sole root, got %+v", tr.Roots)
	}
	if len(tr.Nodes[g].Children) != 1 || tr.Nodes[g].Children[0] != l {
		t.Errorf("expected the leaf to be a child of the group")
	}
	if tr.Nodes[l].Parent != g {
		t.Errorf("expected the leaf's parent to be the group")
	}
}

func TestSetBodyClearsExistingSubtreeBodies(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	l1 := tr.AddLeaf(g)
	l2 := tr.AddLeaf(g)
	tr.Nodes[l1].Body = physics.NewSphere(1, 1, false)

	tr.SetBody(g, physics.NewSphere(1, 1, false))
	if tr.Nodes[l1].Body != nil {
		t.Errorf("expected the old body on l1 to be cleared")
	}
	if tr.Nodes[g].Body == nil {
		t.Errorf("expected the group to carry the new body")
	}
	_ = l2
}

func TestUpdateComposesParentChildModelMatrix(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	tr.Nodes[g].Position = lin.V3{X: 10, Y: 0, Z: 0}
	l := tr.AddLeaf(g)
	tr.Nodes[l].Position = lin.V3{X: 1, Y: 0, Z: 0}

	tr.Update(physics.DefaultConfig())

	leafModel := tr.Nodes[l].ModelMatrix
	if leafModel.Wx != 11 {
		t.Errorf("expected the leaf's world x to be 11, got %f", leafModel.Wx)
	}
}

func TestCreateGroupReturnsDetachedNode(t *testing.T) {
	tr := NewTree()
	n := tr.CreateGroup()
	if len(tr.Nodes) != 0 || len(tr.Roots) != 0 {
		t.Errorf("expected CreateGroup not to register the node, got %d nodes, %d roots", len(tr.Nodes), len(tr.Roots))
	}

	idx := tr.Attach(n, -1)
	if len(tr.Nodes) != 1 || tr.Nodes[idx] != n {
		t.Errorf("expected Attach to register the previously created node")
	}
	if len(tr.Roots) != 1 || tr.Roots[0] != idx {
		t.Errorf("expected the attached node to become a root")
	}
}

func TestCreateLeafUnderParentViaAttach(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	leaf := tr.CreateLeaf()
	idx := tr.Attach(leaf, g)
	if len(tr.Nodes[g].Children) != 1 || tr.Nodes[g].Children[0] != idx {
		t.Errorf("expected the attached leaf to be wired as a child of g")
	}
}

func TestUpdatePropagatesPoseToLeafCollider(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	tr.Nodes[g].Position = lin.V3{X: 5, Y: 0, Z: 0}
	l := tr.AddLeaf(g)
	tr.Nodes[l].Collider = physics.NewSphereCollider(1)

	tr.Update(physics.DefaultConfig())

	// UpdatePose cannot be observed directly (Collider is opaque), but
	// a second Update with nothing dirty must not panic and must leave
	// the model matrix composed correctly, confirming the propagation
	// path ran without error on both the dirty and the settled pass.
	tr.Update(physics.DefaultConfig())
	if tr.Nodes[l].ModelMatrix.Wx != 5 {
		t.Errorf("expected the leaf's world x to be 5, got %f", tr.Nodes[l].ModelMatrix.Wx)
	}
}

func TestUpdateComposesGroupInertiaFromChildren(t *testing.T) {
	tr := NewTree()
	g := tr.AddGroup(-1)
	l1 := tr.AddLeaf(g)
	tr.Nodes[l1].Position = lin.V3{X: 1, Y: 0, Z: 0}
	tr.Nodes[l1].Body = physics.NewSphere(1, 1, false)
	l2 := tr.AddLeaf(g)
	tr.Nodes[l2].Position = lin.V3{X: -1, Y: 0, Z: 0}
	tr.Nodes[l2].Body = physics.NewSphere(1, 1, false)

	tr.Update(physics.DefaultConfig())

	if tr.Nodes[g].InverseInertia == (lin.M3{}) {
		t.Errorf("expected the group to compose a non-zero inverse inertia from its children")
	}
}

func TestUpdateSyncsBodyDrivenNodeAndAppliesDeathPlane(t *testing.T) {
	tr := NewTree()
	l := tr.AddLeaf(-1)
	body := physics.NewSphere(1, 1, false)
	body.SetPosition(lin.V3{X: 0, Y: -999, Z: 0})
	tr.Nodes[l].Body = body

	cfg := physics.DefaultConfig()
	cfg.LeafRespawn = lin.V3{X: 0, Y: 7, Z: 0}
	tr.Update(cfg)

	if tr.Nodes[l].Position != cfg.LeafRespawn {
		t.Errorf("expected the node to respawn at %+v, got %+v", cfg.LeafRespawn, tr.Nodes[l].Position)
	}
	if body.Position() != cfg.LeafRespawn {
		t.Errorf("expected the body to be repositioned too, got %+v", body.Position())
	}
}
