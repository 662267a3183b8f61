package searcher

import (
	"math"

	"dmag/game"
)

// frontier holds the untried joint actions of a node.
type frontier interface {
	Empty() bool
	// Pop removes and returns an untried action drawn uniformly at random.
	Pop(rng game.Rand) (game.JointAction, bool)
}

// listFrontier is an explicitly enumerated frontier.
type listFrontier struct {
	actions []game.JointAction
}

func (f *listFrontier) Empty() bool { return len(f.actions) == 0 }

func (f *listFrontier) Pop(rng game.Rand) (game.JointAction, bool) {
	if len(f.actions) == 0 {
		return nil, false
	}
	i := rng.Intn(len(f.actions))
	action := f.actions[i]
	last := len(f.actions) - 1
	f.actions[i] = f.actions[last]
	f.actions = f.actions[:last]
	return action, true
}

// product is the Cartesian product of per-agent choices, addressed by a
// mixed-radix index.
type product struct {
	choices [][]game.Action
	size    int // -1 when the product overflows an int
}

func newProduct(choices [][]game.Action) product {
	size := 1
	for _, c := range choices {
		if size > math.MaxInt/len(c) {
			return product{choices: choices, size: -1}
		}
		size *= len(c)
	}
	return product{choices: choices, size: size}
}

func (p product) at(index int) game.JointAction {
	joint := make(game.JointAction, len(p.choices))
	for agent := len(p.choices) - 1; agent >= 0; agent-- {
		c := p.choices[agent]
		joint[agent] = c[index%len(c)]
		index /= len(c)
	}
	return joint
}

func (p product) sample(rng game.Rand) game.JointAction {
	joint := make(game.JointAction, len(p.choices))
	for agent, c := range p.choices {
		joint[agent] = c[rng.Intn(len(c))]
	}
	return joint
}

func (p product) enumerate() []game.JointAction {
	actions := make([]game.JointAction, p.size)
	for i := range actions {
		actions[i] = p.at(i)
	}
	return actions
}

// sampledFrontier draws unseen vectors from a product too large to
// enumerate up front. It is empty once every vector has been drawn.
type sampledFrontier struct {
	product
	seen  map[uint64][]game.JointAction
	drawn int
}

func newSampledFrontier(p product) *sampledFrontier {
	return &sampledFrontier{product: p, seen: map[uint64][]game.JointAction{}}
}

func (f *sampledFrontier) Empty() bool {
	return f.size >= 0 && f.drawn >= f.size
}

func (f *sampledFrontier) Pop(rng game.Rand) (game.JointAction, bool) {
	if f.Empty() {
		return nil, false
	}
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		if joint := f.sample(rng); f.mark(joint) {
			return joint, true
		}
	}
	if f.size < 0 {
		return nil, false
	}
	// Near exhaustion: scan from a random index for the next unseen vector.
	start := rng.Intn(f.size)
	for i := 0; i < f.size; i++ {
		if joint := f.at((start + i) % f.size); f.mark(joint) {
			return joint, true
		}
	}
	return nil, false
}

func (f *sampledFrontier) mark(joint game.JointAction) bool {
	h := joint.Hash()
	for _, seen := range f.seen[h] {
		if seen.Equal(joint) {
			return false
		}
	}
	f.seen[h] = append(f.seen[h], joint)
	f.drawn++
	return true
}

type expander struct {
	regime      Regime
	perspective int
	jointLimit  int
	expandAll   bool
}

// choices lists each agent's distinct legal actions for the node's regime.
// Agents without a legal action get Pass; unlabeled agents get a single
// deferred (nil) slot.
func (e expander) choices(state game.State) [][]game.Action {
	agents := state.Agents()
	choices := make([][]game.Action, agents)
	for agent := 0; agent < agents; agent++ {
		if e.regime == Single && agent != e.perspective {
			choices[agent] = []game.Action{nil}
			continue
		}
		legal := distinct(state.LegalActions(agent))
		if len(legal) == 0 {
			legal = []game.Action{game.Pass}
		}
		choices[agent] = legal
	}
	return choices
}

func (e expander) newFrontier(state game.State) frontier {
	p := newProduct(e.choices(state))
	if e.regime == Joint && state.Agents() > e.jointLimit {
		return newSampledFrontier(p)
	}
	if p.size < 0 {
		return newSampledFrontier(p)
	}
	return &listFrontier{actions: p.enumerate()}
}

// passAction is the fallback for a node left without any playable child.
func (e expander) passAction(agents int) game.JointAction {
	joint := make(game.JointAction, agents)
	for agent := range joint {
		if e.regime == Joint || agent == e.perspective {
			joint[agent] = game.Pass
		}
	}
	return joint
}

func distinct(actions []game.Action) []game.Action {
	out := make([]game.Action, 0, len(actions))
	for _, a := range actions {
		dup := false
		for _, b := range out {
			if a == b {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}
