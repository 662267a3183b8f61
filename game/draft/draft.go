// Package draft is a small card-drafting game used to exercise the searcher
// with more than two agents: every turn each player keeps one card of its
// hand (building it or discarding it for coins) and passes the rest on.
// Hands travel clockwise in odd eras and counter-clockwise in even ones.
package draft

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash"
	"golang.org/x/exp/rand"

	"dmag/game"
)

const (
	DefaultHandSize = 4
	DefaultEras     = 3
	StartingCoins   = 3
	DiscardCoins    = 3
)

// Pick keeps a card from the hand, building it or discarding it.
type Pick struct {
	Card    string
	Discard bool
}

func (p Pick) String() string {
	if p.Discard {
		return "discard " + p.Card
	}
	return "build " + p.Card
}

type State struct {
	players  int
	eras     int
	handSize int
	era      int
	turn     int
	hands    [][]string
	decks    [][]string // one pre-shuffled deck per era
	tableau  [][]string
	coins    []int
	military []int
	pending  []Pick
	acted    []bool
}

type Option func(*State)

func WithHandSize(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.handSize = n
		}
	}
}

func WithEras(n int) Option {
	return func(s *State) {
		if n > 0 && n <= len(catalog) {
			s.eras = n
		}
	}
}

// New deals a game for the given number of players from a seeded shuffle.
func New(players int, seed uint64, options ...Option) *State {
	s := &State{
		players:  players,
		eras:     DefaultEras,
		handSize: DefaultHandSize,
		hands:    make([][]string, players),
		tableau:  make([][]string, players),
		coins:    make([]int, players),
		military: make([]int, players),
		pending:  make([]Pick, players),
		acted:    make([]bool, players),
	}
	for _, option := range options {
		option(s)
	}
	for i := range s.coins {
		s.coins[i] = StartingCoins
	}

	rng := rand.New(rand.NewSource(seed))
	size := players * s.handSize
	s.decks = make([][]string, s.eras)
	for era := 0; era < s.eras; era++ {
		kinds := catalog[era]
		deck := make([]string, 0, size+len(kinds))
		for len(deck) < size {
			for _, c := range kinds {
				deck = append(deck, c.Name)
			}
		}
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		s.decks[era] = deck[:size]
	}
	s.deal()
	return s
}

func (s *State) deal() {
	deck := s.decks[s.era]
	for p := 0; p < s.players; p++ {
		s.hands[p] = append([]string(nil), deck[p*s.handSize:(p+1)*s.handSize]...)
	}
}

func (s *State) Agents() int { return s.players }

func (s *State) Era() int { return s.era }

func (s *State) Turn() int { return s.turn }

func (s *State) Hand(agent int) []string { return append([]string(nil), s.hands[agent]...) }

func (s *State) Tableau(agent int) []string { return append([]string(nil), s.tableau[agent]...) }

func (s *State) Coins(agent int) int { return s.coins[agent] }

func (s *State) LegalActions(agent int) []game.Action {
	if s.IsTerminal() || s.acted[agent] {
		return nil
	}
	var actions []game.Action
	seen := map[string]bool{}
	for _, name := range s.hands[agent] {
		if seen[name] {
			continue
		}
		seen[name] = true
		if s.canBuild(agent, name) {
			actions = append(actions, Pick{Card: name})
		}
		actions = append(actions, Pick{Card: name, Discard: true})
	}
	return actions
}

func (s *State) canBuild(agent int, name string) bool {
	card, ok := lookup(name)
	if !ok || s.coins[agent] < card.Cost {
		return false
	}
	for _, built := range s.tableau[agent] {
		if built == name {
			return false
		}
	}
	return true
}

func (s *State) Apply(agent int, action game.Action) (game.State, error) {
	pick, ok := action.(Pick)
	if !ok {
		return nil, fmt.Errorf("unknown action %v: %w", action, game.ErrActionRejected)
	}
	if s.IsTerminal() {
		return nil, fmt.Errorf("game over: %w", game.ErrActionRejected)
	}
	if s.acted[agent] {
		return nil, fmt.Errorf("player %d already picked this turn: %w", agent, game.ErrActionRejected)
	}
	if indexOf(s.hands[agent], pick.Card) < 0 {
		return nil, fmt.Errorf("%q not in hand of player %d: %w", pick.Card, agent, game.ErrActionRejected)
	}
	if !pick.Discard && !s.canBuild(agent, pick.Card) {
		return nil, fmt.Errorf("player %d cannot build %q: %w", agent, pick.Card, game.ErrActionRejected)
	}

	next := s.copy()
	next.pending[agent] = pick
	next.acted[agent] = true
	return next, nil
}

// DefaultAction discards the first card in hand.
func (s *State) DefaultAction(agent int) (game.Action, bool) {
	if s.IsTerminal() || s.acted[agent] || len(s.hands[agent]) == 0 {
		return nil, false
	}
	return Pick{Card: s.hands[agent][0], Discard: true}, true
}

func (s *State) EndTurn() game.State {
	next := s.copy()
	if next.IsTerminal() {
		return next
	}

	for p := 0; p < next.players; p++ {
		pick := next.pending[p]
		if !next.acted[p] {
			// Every hand must shrink each turn for the era to end.
			pick = Pick{Card: next.hands[p][0], Discard: true}
		}
		next.resolve(p, pick)
		next.pending[p] = Pick{}
		next.acted[p] = false
	}
	next.pass()
	next.turn++

	if len(next.hands[0]) == 0 {
		next.battle()
		next.era++
		if next.era < next.eras {
			next.deal()
		}
	}
	return next
}

func (s *State) resolve(player int, pick Pick) {
	hand := s.hands[player]
	i := indexOf(hand, pick.Card)
	s.hands[player] = append(hand[:i:i], hand[i+1:]...)
	if pick.Discard {
		s.coins[player] += DiscardCoins
		return
	}
	card, _ := lookup(pick.Card)
	s.coins[player] += card.Coins - card.Cost
	s.tableau[player] = append(s.tableau[player], pick.Card)
}

// pass rotates hands: clockwise in eras 1 and 3, counter-clockwise in era 2.
func (s *State) pass() {
	rotated := make([][]string, s.players)
	for p := range s.hands {
		to := (p + 1) % s.players
		if s.era%2 == 1 {
			to = (p - 1 + s.players) % s.players
		}
		rotated[to] = s.hands[p]
	}
	s.hands = rotated
}

// battle compares shields with both neighbours at the end of an era.
func (s *State) battle() {
	if s.players < 2 {
		return
	}
	shields := make([]int, s.players)
	for p := range shields {
		for _, name := range s.tableau[p] {
			card, _ := lookup(name)
			shields[p] += card.Shield
		}
	}
	victory := 2*s.era + 1
	for p := 0; p < s.players; p++ {
		for _, n := range []int{(p + 1) % s.players, (p - 1 + s.players) % s.players} {
			switch {
			case shields[p] > shields[n]:
				s.military[p] += victory
			case shields[p] < shields[n]:
				s.military[p]--
			}
		}
	}
}

func (s *State) IsTerminal() bool { return s.era >= s.eras }

// Score totals card points, coins, the science set and military tokens.
func (s *State) Score(agent int) int {
	score := s.coins[agent]/3 + s.military[agent]
	greens := 0
	for _, name := range s.tableau[agent] {
		card, _ := lookup(name)
		score += card.Points
		if card.Color == Green {
			greens++
		}
	}
	return score + greens*greens
}

// Reward rescales the agent's score between the worst (0) and best (1)
// scores at the table; a level table rewards everyone 0.5.
func (s *State) Reward(agent int) float64 {
	lo, hi := s.Score(0), s.Score(0)
	for p := 1; p < s.players; p++ {
		score := s.Score(p)
		lo = min(lo, score)
		hi = max(hi, score)
	}
	if hi == lo {
		return 0.5
	}
	return float64(s.Score(agent)-lo) / float64(hi-lo)
}

func (s *State) Hash() uint64 {
	d := xxhash.New()
	write := func(v string) {
		d.Write([]byte(v))
		d.Write([]byte{0x1f})
	}
	write(strconv.Itoa(s.era))
	write(strconv.Itoa(s.turn))
	for p := 0; p < s.players; p++ {
		for _, name := range s.hands[p] {
			write(name)
		}
		write("|")
		for _, name := range s.tableau[p] {
			write(name)
		}
		write("|")
		write(strconv.Itoa(s.coins[p]))
		write(strconv.Itoa(s.military[p]))
		if s.acted[p] {
			write(s.pending[p].String())
		}
	}
	return d.Sum64()
}

func (s *State) Clone() game.State { return s.copy() }

func (s *State) copy() *State {
	return &State{
		players:  s.players,
		eras:     s.eras,
		handSize: s.handSize,
		era:      s.era,
		turn:     s.turn,
		hands:    copyNested(s.hands),
		decks:    s.decks, // never written after New
		tableau:  copyNested(s.tableau),
		coins:    append([]int(nil), s.coins...),
		military: append([]int(nil), s.military...),
		pending:  append([]Pick(nil), s.pending...),
		acted:    append([]bool(nil), s.acted...),
	}
}

func copyNested(src [][]string) [][]string {
	dst := make([][]string, len(src))
	for i, v := range src {
		dst[i] = append([]string(nil), v...)
	}
	return dst
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
