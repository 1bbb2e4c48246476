package tasktree

import (
	"strings"

	"github.com/google/uuid"
)

// MilestonePrefix marks nodes produced as milestone groupings by deconstruction.
const MilestonePrefix = "🏁 "

// Node is a single task. Children are ordered; a node without children is a leaf.
type Node struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
	Children  []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// OneLine replaces embedded line breaks with spaces and trims the result.
// Node text is always a single line so it survives line-based export.
func OneLine(text string) string {
	return strings.TrimSpace(lineBreaks.Replace(text))
}

// NewNode returns an incomplete leaf with a fresh ID and single-line text.
func NewNode(text string) Node {
	return Node{ID: uuid.NewString(), Text: OneLine(text)}
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsMilestone reports whether the node text carries the milestone marker.
func (n Node) IsMilestone() bool {
	return strings.HasPrefix(n.Text, MilestonePrefix)
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Children = cloneNodes(n.Children)
	return n
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, child := range nodes {
		out[i] = child.Clone()
	}
	return out
}

// Find locates a node by ID anywhere under nodes.
func Find(nodes []Node, id string) (Node, bool) {
	var (
		found Node
		ok    bool
	)
	Walk(nodes, func(n Node, _ int) bool {
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// ResolveID finds a node by exact ID or, failing that, by a unique ID prefix.
// An ambiguous prefix resolves to nothing.
func ResolveID(nodes []Node, ref string) (Node, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Node{}, false
	}
	if n, ok := Find(nodes, ref); ok {
		return n, true
	}
	var (
		match Node
		hits  int
	)
	Walk(nodes, func(n Node, _ int) bool {
		if strings.HasPrefix(n.ID, ref) {
			match = n
			hits++
		}
		return hits < 2
	})
	if hits != 1 {
		return Node{}, false
	}
	return match, true
}

// Walk visits nodes depth-first in pre-order. Depth is 0 for the given
// nodes. Returning false from fn stops the walk.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes at every depth.
func Count(nodes []Node) int {
	total := 0
	Walk(nodes, func(Node, int) bool {
		total++
		return true
	})
	return total
}

// updateNode applies fn to the node with the given ID and returns a copy of
// nodes with the path to it rebuilt. The second result is false on a miss,
// in which case nodes is returned as is.
func updateNode(nodes []Node, id string, fn func(Node) Node) ([]Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			out := make([]Node, len(nodes))
			copy(out, nodes)
			out[i] = fn(n)
			return out, true
		}
		if children, ok := updateNode(n.Children, id, fn); ok {
			out := make([]Node, len(nodes))
			copy(out, nodes)
			n.Children = children
			out[i] = n
			return out, true
		}
	}
	return nodes, false
}

func setCompleted(n Node, value bool) Node {
	n.Completed = value
	if len(n.Children) > 0 {
		children := make([]Node, len(n.Children))
		for i, child := range n.Children {
			children[i] = setCompleted(child, value)
		}
		n.Children = children
	}
	return n
}
