package model

import "time"

// Comment is a single node of a post's comment tree.
type Comment struct {
	ID         string
	Author     string
	Body       string
	Score      int
	CreatedUTC time.Time
}

// CommentNode is an arena entry: the comment plus index links to its parent
// and children. Index-based links keep the tree a flat slice, so it can be
// read concurrently without pointer chasing or ownership questions.
type CommentNode struct {
	Comment
	Parent   int // index into Nodes, -1 for top-level comments
	Children []int
}

// CommentTree holds a post's comments as arena-indexed nodes.
// The tree is immutable after loading until explicitly refreshed.
type CommentTree struct {
	Nodes []CommentNode
}

// NewCommentTree returns an empty tree.
func NewCommentTree() *CommentTree {
	return &CommentTree{}
}

// Add appends a comment under the given parent index (-1 for top level) and
// returns the index of the new node.
func (ct *CommentTree) Add(parent int, c Comment) int {
	idx := len(ct.Nodes)
	ct.Nodes = append(ct.Nodes, CommentNode{Comment: c, Parent: parent})
	if parent >= 0 && parent < idx {
		ct.Nodes[parent].Children = append(ct.Nodes[parent].Children, idx)
	}
	return idx
}

// Len returns the total number of comments in the tree.
func (ct *CommentTree) Len() int {
	return len(ct.Nodes)
}

// Depth returns the nesting depth of the node at idx; top-level nodes are 0.
func (ct *CommentTree) Depth(idx int) int {
	depth := 0
	for idx >= 0 && idx < len(ct.Nodes) {
		parent := ct.Nodes[idx].Parent
		if parent < 0 {
			break
		}
		depth++
		idx = parent
	}
	return depth
}

// TopLevel returns the indices of all top-level comments in insertion order.
func (ct *CommentTree) TopLevel() []int {
	var roots []int
	for i := range ct.Nodes {
		if ct.Nodes[i].Parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// Walk visits every node in display order (depth first, children after their
// parent) and passes the node index and its depth to fn.
func (ct *CommentTree) Walk(fn func(idx, depth int)) {
	for _, root := range ct.TopLevel() {
		ct.walk(root, 0, fn)
	}
}

func (ct *CommentTree) walk(idx, depth int, fn func(idx, depth int)) {
	fn(idx, depth)
	for _, child := range ct.Nodes[idx].Children {
		ct.walk(child, depth+1, fn)
	}
}

// MaxDepth returns the deepest nesting level in the tree, 0 for a flat tree
// and -1 when the tree is empty.
func (ct *CommentTree) MaxDepth() int {
	if len(ct.Nodes) == 0 {
		return -1
	}
	max := 0
	ct.Walk(func(_, depth int) {
		if depth > max {
			max = depth
		}
	})
	return max
}
