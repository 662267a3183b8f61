package game

// Rand is the random source threaded through turn resolution.
type Rand interface {
	Intn(n int) int
}

// PlayTurn plays one action per agent on state and ends the turn. Labeled
// slots of fixed are played as given and a refusal is returned as a
// *RejectedError. Deferred slots (and every slot when fixed is nil) are
// drawn uniformly from the agent's legal actions before any action of the
// turn is applied; a refused draw is resampled from the remaining candidates
// and, when none is accepted, the agent falls back to its default action or
// passes. The returned joint action is what was actually played.
func PlayTurn(state State, fixed JointAction, rng Rand) (State, JointAction, error) {
	agents := state.Agents()
	candidates := make([][]Action, agents)
	for agent := 0; agent < agents; agent++ {
		if fixed == nil || fixed[agent] == nil {
			candidates[agent] = append([]Action(nil), state.LegalActions(agent)...)
		}
	}

	played := make(JointAction, agents)
	next := state
	for agent := 0; agent < agents; agent++ {
		if fixed != nil && fixed[agent] != nil {
			action := fixed[agent]
			played[agent] = action
			if action == Pass {
				continue
			}
			s, err := next.Apply(agent, action)
			if err != nil {
				return nil, nil, &RejectedError{Agent: agent, Action: action, Err: err}
			}
			next = s
			continue
		}

		next, played[agent] = playRandom(next, agent, candidates[agent], rng)
	}

	return next.EndTurn(), played, nil
}

func playRandom(state State, agent int, pool []Action, rng Rand) (State, Action) {
	for len(pool) > 0 {
		i := rng.Intn(len(pool))
		if next, err := state.Apply(agent, pool[i]); err == nil {
			return next, pool[i]
		}
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	if d, ok := state.(Defaulter); ok {
		if action, ok := d.DefaultAction(agent); ok && action != nil && action != Pass {
			if next, err := state.Apply(agent, action); err == nil {
				return next, action
			}
		}
	}
	return state, Pass
}
