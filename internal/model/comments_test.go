package model

import "testing"

func buildTestTree() *CommentTree {
	// root0
	//   child0a
	//     grandchild
	//   child0b
	// root1
	ct := NewCommentTree()
	root0 := ct.Add(-1, Comment{ID: "root0"})
	child0a := ct.Add(root0, Comment{ID: "child0a"})
	ct.Add(child0a, Comment{ID: "grandchild"})
	ct.Add(root0, Comment{ID: "child0b"})
	ct.Add(-1, Comment{ID: "root1"})
	return ct
}

func TestCommentTreeAdd(t *testing.T) {
	ct := buildTestTree()

	if ct.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", ct.Len())
	}

	roots := ct.TopLevel()
	if len(roots) != 2 {
		t.Fatalf("TopLevel() returned %d roots, want 2", len(roots))
	}
	if ct.Nodes[roots[0]].ID != "root0" || ct.Nodes[roots[1]].ID != "root1" {
		t.Errorf("unexpected root order: %q, %q", ct.Nodes[roots[0]].ID, ct.Nodes[roots[1]].ID)
	}

	if len(ct.Nodes[0].Children) != 2 {
		t.Errorf("root0 should have 2 children, got %d", len(ct.Nodes[0].Children))
	}
}

func TestCommentTreeDepth(t *testing.T) {
	ct := buildTestTree()

	tests := []struct {
		id       string
		idx      int
		expected int
	}{
		{"root0", 0, 0},
		{"child0a", 1, 1},
		{"grandchild", 2, 2},
		{"child0b", 3, 1},
		{"root1", 4, 0},
	}

	for _, tt := range tests {
		if got := ct.Depth(tt.idx); got != tt.expected {
			t.Errorf("Depth(%s) = %d, want %d", tt.id, got, tt.expected)
		}
	}

	if got := ct.MaxDepth(); got != 2 {
		t.Errorf("MaxDepth() = %d, want 2", got)
	}
}

func TestCommentTreeWalkOrder(t *testing.T) {
	ct := buildTestTree()

	var order []string
	var depths []int
	ct.Walk(func(idx, depth int) {
		order = append(order, ct.Nodes[idx].ID)
		depths = append(depths, depth)
	})

	expected := []string{"root0", "child0a", "grandchild", "child0b", "root1"}
	if len(order) != len(expected) {
		t.Fatalf("Walk visited %d nodes, want %d", len(order), len(expected))
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Walk order[%d] = %q, want %q", i, order[i], expected[i])
		}
	}

	expectedDepths := []int{0, 1, 2, 1, 0}
	for i := range expectedDepths {
		if depths[i] != expectedDepths[i] {
			t.Errorf("Walk depth[%d] = %d, want %d", i, depths[i], expectedDepths[i])
		}
	}
}

func TestEmptyCommentTree(t *testing.T) {
	ct := NewCommentTree()

	if ct.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ct.Len())
	}
	if ct.MaxDepth() != -1 {
		t.Errorf("MaxDepth() = %d, want -1", ct.MaxDepth())
	}
	if roots := ct.TopLevel(); len(roots) != 0 {
		t.Errorf("TopLevel() returned %d roots, want 0", len(roots))
	}
}
