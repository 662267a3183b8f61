package game

import (
	"strings"

	"github.com/cespare/xxhash"
)

// JointAction holds one action per agent for a single turn. A nil slot is
// deferred: it is drawn uniformly at random when the turn is played.
type JointAction []Action

// Single labels only the given agent's slot and defers the others.
func Single(agents, agent int, action Action) JointAction {
	joint := make(JointAction, agents)
	joint[agent] = action
	return joint
}

func (j JointAction) Equal(other JointAction) bool {
	if len(j) != len(other) {
		return false
	}
	for i := range j {
		if j[i] != other[i] {
			return false
		}
	}
	return true
}

// Deferred reports whether any slot is left to the random policy.
func (j JointAction) Deferred() bool {
	for _, a := range j {
		if a == nil {
			return true
		}
	}
	return false
}

// Hash fingerprints the action vector by its slots' string forms.
func (j JointAction) Hash() uint64 {
	d := xxhash.New()
	for _, a := range j {
		if a == nil {
			d.Write([]byte{0})
		} else {
			d.Write([]byte(a.String()))
		}
		d.Write([]byte{0x1f})
	}
	return d.Sum64()
}

func (j JointAction) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, a := range j {
		if i > 0 {
			b.WriteByte(' ')
		}
		if a == nil {
			b.WriteByte('*')
		} else {
			b.WriteString(a.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}
