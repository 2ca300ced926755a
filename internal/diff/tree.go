package diff

import (
	"fmt"
	"sort"
	"strings"
)

// TreeNode is a directory or a file in the changed-file tree.
type TreeNode struct {
	Name      string
	Path      string
	FileIndex int // index into the []*File the tree was built from; -1 for directories
	Children  []*TreeNode

	children map[string]*TreeNode
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool { return n.FileIndex < 0 }

// TreeRow is one line of the flattened tree.
type TreeRow struct {
	Node  *TreeNode
	Depth int
}

// BuildTree groups file paths into a directory tree. Children are ordered by
// path segment. The returned root is an unnamed directory.
func BuildTree(files []*File) *TreeNode {
	root := newDir("", "")
	for i, f := range files {
		path := strings.Trim(f.Path, "/")
		if path == "" {
			path = "(unnamed)"
		}
		segs := strings.Split(path, "/")
		dir := root
		for j, seg := range segs[:len(segs)-1] {
			child, ok := dir.children[seg]
			if !ok {
				child = newDir(seg, strings.Join(segs[:j+1], "/"))
				dir.children[seg] = child
			}
			dir = child
		}
		// File keys never collide with directory keys, and the same path
		// may appear more than once (staged and unstaged sides).
		name := segs[len(segs)-1]
		key := fmt.Sprintf("%s\x00%08d", name, i)
		dir.children[key] = &TreeNode{Name: name, Path: path, FileIndex: i}
	}
	root.sortChildren()
	return root
}

func newDir(name, path string) *TreeNode {
	return &TreeNode{Name: name, Path: path, FileIndex: -1, children: make(map[string]*TreeNode)}
}

func (n *TreeNode) sortChildren() {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n.Children = make([]*TreeNode, 0, len(keys))
	for _, k := range keys {
		c := n.children[k]
		if c.IsDir() {
			c.sortChildren()
		}
		n.Children = append(n.Children, c)
	}
}

// Walk visits every node below n depth-first in display order.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	var walk func(*TreeNode, int)
	walk = func(node *TreeNode, depth int) {
		for _, c := range node.Children {
			fn(c, depth)
			if c.IsDir() {
				walk(c, depth+1)
			}
		}
	}
	walk(n, 0)
}

// Flatten returns all nodes below n in display order.
func (n *TreeNode) Flatten() []TreeRow {
	var rows []TreeRow
	n.Walk(func(node *TreeNode, depth int) {
		rows = append(rows, TreeRow{Node: node, Depth: depth})
	})
	return rows
}

// FileOrder returns the file indices in the order the tree displays them.
func (n *TreeNode) FileOrder() []int {
	var order []int
	n.Walk(func(node *TreeNode, _ int) {
		if !node.IsDir() {
			order = append(order, node.FileIndex)
		}
	})
	return order
}
