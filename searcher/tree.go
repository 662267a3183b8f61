package searcher

import (
	"fmt"
	"io"
	"strings"

	"dmag/game"
)

// Tree owns a root node and everything reachable from it.
type Tree struct {
	root *Node
}

func NewTree(state game.State) *Tree {
	return &Tree{root: newRoot(state)}
}

func (t *Tree) Root() *Node { return t.root }

// Promote re-roots the tree at a child of the root. The old root and the
// child's siblings become unreachable.
func (t *Tree) Promote(child *Node) {
	if child.parent != t.root {
		panic("promoted node is not a child of the root")
	}
	t.root.prune(child)
	t.root.children = nil
	t.root = child
}

// Size counts the nodes reachable from the root.
func (t *Tree) Size() int {
	size := 0
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		stack = append(stack, n.children...)
	}
	return size
}

// Print writes one line per node, indented by depth, down to maxDepth
// (all levels when maxDepth < 0).
func (t *Tree) Print(w io.Writer, maxDepth int) error {
	return printNode(w, t.root, 0, maxDepth)
}

func printNode(w io.Writer, n *Node, depth, maxDepth int) error {
	label := "root"
	if n.action != nil {
		label = n.action.String()
	}
	_, err := fmt.Fprintf(w, "%s%s value=%.3f visits=%d children=%d %s\n",
		strings.Repeat("  ", depth), label, n.AverageValue(), n.visits, len(n.children), n.Status())
	if err != nil {
		return err
	}
	if maxDepth >= 0 && depth >= maxDepth {
		return nil
	}
	for _, c := range n.children {
		if err := printNode(w, c, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
