package searcher

import "math"

// Hyperparameters for MCTS

const DefaultExploration = math.Sqrt2 // UCB1 exploration constant C

// Joint frontiers are enumerated up to this many agents and sampled beyond.
const DefaultJointLimit = 3

// Random draws tried before a sampled frontier scans for an unseen vector.
const maxSampleAttempts = 32
