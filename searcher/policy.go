package searcher

import "math"

type ucb struct {
	numerator float64
}

func newUCB(c float64, N float64) *ucb {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &ucb{numerator: c * c * math.Log(N)}
}

func (u ucb) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCB1 = q/n + c*sqrt(ln(N)/n) = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// selectChild returns the first unvisited child, otherwise the child with
// the greatest UCB1 score. Ties go to the earliest child.
func selectChild(n *Node, c float64) *Node {
	if len(n.children) == 0 {
		return nil
	}
	for _, child := range n.children {
		if child.visits == 0 {
			return child
		}
	}

	policy := newUCB(c, float64(n.visits))
	var best *Node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		if score := policy.evaluate(child.rewards, float64(child.visits)); score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// bestChild returns the visited child with the greatest average value, or
// the first child when none was visited. Ties go to the earliest child.
func bestChild(n *Node) *Node {
	if len(n.children) == 0 {
		return nil
	}
	best := n.children[0]
	bestValue := math.Inf(-1)
	for _, child := range n.children {
		if child.visits == 0 {
			continue
		}
		if v := child.AverageValue(); v > bestValue {
			best = child
			bestValue = v
		}
	}
	return best
}
