package searcher

import (
	"errors"
	"time"

	"dmag/experiments/metrics"
	"dmag/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// Visit is a root child's action with its visit count.
type Visit struct {
	Action game.JointAction
	Visits int
}

// MCTS searches a single tree from the perspective of one agent. It is not
// safe for concurrent use; run one MCTS per agent instead.
type MCTS struct {
	perspective int
	exploration float64
	cutoff      int
	seed        uint64
	expander    expander
	rng         *rand.Rand
	tree        *Tree
	metrics     metrics.Collector
	logger      zerolog.Logger
	last        metrics.SearchMetric
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithRegime(regime Regime) Option {
	return func(m *MCTS) {
		m.expander.regime = regime
	}
}

// WithJointLimit sets the number of agents above which joint frontiers are
// sampled lazily instead of enumerated.
func WithJointLimit(agents int) Option {
	return func(m *MCTS) {
		if agents > 0 {
			m.expander.jointLimit = agents
		}
	}
}

// WithExpandAll turns every untried action of a node into an
// unmaterialized child on its first expansion.
func WithExpandAll() Option {
	return func(m *MCTS) {
		m.expander.expandAll = true
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *MCTS) {
		m.logger = logger
	}
}

func NewMCTS(state game.State, perspective int, options ...Option) *MCTS {
	if perspective < 0 || perspective >= state.Agents() {
		panic("perspective agent out of range")
	}
	m := &MCTS{ // Default values
		perspective: perspective,
		exploration: DefaultExploration,
		seed:        uint64(time.Now().UnixNano()),
		expander: expander{
			regime:      Joint,
			perspective: perspective,
			jointLimit:  DefaultJointLimit,
		},
		metrics: metrics.NewDummyCollector(),
		logger:  log.With().Int("agent", perspective).Logger(),
	}
	for _, option := range options {
		option(m)
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	m.tree = NewTree(state.Clone())
	m.metrics.SetTreeReset(true)
	return m
}

func (m *MCTS) Perspective() int { return m.perspective }

func (m *MCTS) Tree() *Tree { return m.tree }

// Metrics returns the metrics of the last search.
func (m *MCTS) Metrics() metrics.SearchMetric { return m.last }

// Search runs iterations of select, expand, rollout and backup from the
// current root and returns the action of the root child with the greatest
// average value.
func (m *MCTS) Search(iterations int) (game.JointAction, error) {
	m.metrics.Start(iterations, m.cutoff)
	for i := 0; i < iterations; i++ {
		if err := m.simulate(); err != nil {
			return nil, err
		}
		m.metrics.AddEpisode()
	}
	m.metrics.SetTreeSize(m.tree.Size())
	m.last = m.metrics.Complete()

	best := bestChild(m.tree.root)
	if best == nil {
		m.logger.Error().Int("iterations", iterations).Msg("root has no children after search")
		return nil, ErrNoViableMove
	}
	return best.action, nil
}

// Policy lists the root's children in order with their visit counts.
func (m *MCTS) Policy() []Visit {
	policy := make([]Visit, len(m.tree.root.children))
	for i, child := range m.tree.root.children {
		policy[i] = Visit{Action: child.action, Visits: child.visits}
	}
	return policy
}

// CommitMove advances the tree past the joint action realized by the real
// game. The root child standing for that action becomes the new root with
// its statistics intact; when there is none, or its state does not hash to
// the real state, the tree is rebuilt from a clone of state. It reports
// whether the tree was reused.
func (m *MCTS) CommitMove(realized game.JointAction, state game.State) bool {
	for _, child := range m.tree.root.children {
		if !child.matches(realized) {
			continue
		}
		if !sameState(child.state, state) {
			m.logger.Warn().Stringer("action", realized).Msg("simulated state diverged from the real state")
			break
		}
		m.tree.Promote(child)
		if !child.IsMaterialized() {
			child.state = state.Clone()
			child.resolved = append(game.JointAction(nil), realized...)
			child.terminal = child.state.IsTerminal()
		}
		m.metrics.SetTreeReset(false)
		return true
	}

	m.logger.Debug().Stringer("action", realized).Msg("rebuilding tree")
	m.tree = NewTree(state.Clone())
	m.metrics.SetTreeReset(true)
	return false
}

func sameState(simulated, real game.State) bool {
	if simulated == nil {
		return true
	}
	a, ok := simulated.(game.Hasher)
	if !ok {
		return true
	}
	b, ok := real.(game.Hasher)
	if !ok {
		return true
	}
	return a.Hash() == b.Hash()
}

func (m *MCTS) simulate() error {
	leaf, err := m.selectLeaf()
	if err != nil {
		return err
	}
	node, err := m.expand(leaf)
	if err != nil {
		return err
	}
	reward, err := m.rollout(node)
	if err != nil {
		return err
	}
	backup(node, reward)
	return nil
}

// selectLeaf descends by UCB1 while the node is fully expanded, not
// terminal and has children.
func (m *MCTS) selectLeaf() (*Node, error) {
	node := m.tree.root
	for !node.terminal && node.IsFullyExpanded() && len(node.children) > 0 {
		child := selectChild(node, m.exploration)
		ok, err := m.materialize(child)
		if err != nil {
			return nil, err
		}
		if ok {
			node = child
		}
	}
	return node, nil
}

// expand adds one child to leaf (every untried child in expand-all mode)
// and returns the child to roll out from. A terminal leaf, or one with
// nothing left to try, is returned as is.
func (m *MCTS) expand(leaf *Node) (*Node, error) {
	if leaf.terminal {
		return leaf, nil
	}
	state, err := leaf.State(m.rng)
	if err != nil {
		return nil, err
	}
	if leaf.frontier == nil {
		leaf.frontier = m.expander.newFrontier(state)
	}

	if m.expander.expandAll {
		for action, ok := leaf.frontier.Pop(m.rng); ok; action, ok = leaf.frontier.Pop(m.rng) {
			leaf.AddChild(action)
		}
		for i := 0; i < len(leaf.children); {
			child := leaf.children[i]
			if child.visits > 0 || child.IsMaterialized() {
				i++
				continue
			}
			ok, err := m.materialize(child)
			if err != nil {
				return nil, err
			}
			if ok {
				return child, nil
			}
		}
	}

	for {
		action, ok := leaf.frontier.Pop(m.rng)
		if !ok {
			if len(leaf.children) > 0 || leaf.passed {
				return leaf, nil
			}
			// Every action was refused or none exists: pass the turn
			leaf.passed = true
			action = m.expander.passAction(state.Agents())
		}
		child := leaf.AddChild(action)
		ok, err := m.materialize(child)
		if err != nil {
			return nil, err
		}
		if ok {
			return child, nil
		}
	}
}

// materialize computes the child's state. A child whose action the game
// refuses is pruned from its parent and reported as not ok.
func (m *MCTS) materialize(child *Node) (bool, error) {
	if child.IsMaterialized() {
		return true, nil
	}
	parent := child.parent
	if _, err := child.State(m.rng); err != nil {
		if !errors.Is(err, game.ErrActionRejected) {
			return false, err
		}
		parent.prune(child)
		m.metrics.AddRejection()
		m.logger.Debug().Err(err).Stringer("action", child.action).Msg("pruned refused action")
		return false, nil
	}
	return true, nil
}
