package searcher

import (
	"fmt"

	"dmag/game"
)

type Status int

const (
	Unexpanded Status = iota
	PartiallyExpanded
	FullyExpanded
	Terminal
)

func (s Status) String() string {
	switch s {
	case Unexpanded:
		return "unexpanded"
	case PartiallyExpanded:
		return "partial"
	case FullyExpanded:
		return "full"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Node is one decision point. A node owns its children; parent is a
// back-pointer walked only during backup and never implies ownership.
type Node struct {
	parent   *Node
	action   game.JointAction // nil at the root
	resolved game.JointAction // what was played when the state was materialized
	children []*Node
	frontier frontier // untried actions, nil until first visit
	state    game.State
	terminal bool
	passed   bool // pass fallback already used
	rewards  float64
	visits   int
}

func newRoot(state game.State) *Node {
	return &Node{
		state:    state,
		terminal: state.IsTerminal(),
	}
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// Action is the joint action that led here from the parent.
func (n *Node) Action() game.JointAction { return n.action }

// Resolved is the joint action actually played to reach this node, with
// deferred slots filled in. It is nil until the state is materialized.
func (n *Node) Resolved() game.JointAction { return n.resolved }

func (n *Node) Visits() int { return n.visits }

// Value is the cumulative reward backed up through this node.
func (n *Node) Value() float64 { return n.rewards }

// AverageValue is Value/Visits, or 0 for an unvisited node.
func (n *Node) AverageValue() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

func (n *Node) IsTerminal() bool { return n.terminal }

func (n *Node) IsMaterialized() bool { return n.state != nil }

func (n *Node) IsFullyExpanded() bool {
	return n.frontier != nil && n.frontier.Empty()
}

func (n *Node) Status() Status {
	switch {
	case n.terminal:
		return Terminal
	case n.IsFullyExpanded():
		return FullyExpanded
	case len(n.children) > 0:
		return PartiallyExpanded
	}
	return Unexpanded
}

// Update records one backed-up reward.
func (n *Node) Update(reward float64) {
	n.rewards += reward
	n.visits++
}

// AddChild appends an unmaterialized child reached by action.
func (n *Node) AddChild(action game.JointAction) *Node {
	child := &Node{
		parent: n,
		action: action,
	}
	n.children = append(n.children, child)
	return child
}

// State returns the node's game state, materializing it from the parent's
// state on first use.
func (n *Node) State(rng game.Rand) (game.State, error) {
	if n.state != nil {
		return n.state, nil
	}
	if n.parent == nil {
		panic("root node has no state")
	}

	parentState, err := n.parent.State(rng)
	if err != nil {
		return nil, err
	}
	state, played, err := game.PlayTurn(parentState.Clone(), n.action, rng)
	if err != nil {
		return nil, fmt.Errorf("materializing %s: %w", n.action, err)
	}
	n.state = state
	n.resolved = played
	n.terminal = state.IsTerminal()
	return n.state, nil
}

// prune detaches child and its subtree.
func (n *Node) prune(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// matches reports whether the node stands for the realized joint action.
// Deferred slots only match once materialized with the same draw.
func (n *Node) matches(realized game.JointAction) bool {
	if len(n.action) != len(realized) {
		return false
	}
	for i, a := range n.action {
		if a == nil {
			if n.resolved == nil || n.resolved[i] != realized[i] {
				return false
			}
			continue
		}
		if a != realized[i] {
			return false
		}
	}
	return true
}
