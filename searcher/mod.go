package searcher

import (
	"errors"
	"fmt"
)

// ErrNoViableMove is returned by Search when the root has no child to
// recommend. The pass fallback makes it unreachable for non-terminal roots.
var ErrNoViableMove = errors.New("no viable move")

// Regime selects how node actions are labeled.
type Regime int

const (
	// Joint nodes enumerate the product of every agent's legal actions.
	Joint Regime = iota
	// Single nodes label only the searching agent's action; the other agents'
	// actions are drawn when the node's state is materialized.
	Single
)

func (r Regime) String() string {
	switch r {
	case Joint:
		return "joint"
	case Single:
		return "single"
	}
	return fmt.Sprintf("regime(%d)", int(r))
}

func ParseRegime(s string) (Regime, error) {
	switch s {
	case "joint", "":
		return Joint, nil
	case "single":
		return Single, nil
	}
	return 0, fmt.Errorf("unknown regime %q", s)
}
