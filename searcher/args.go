package searcher

// Hyperparameters for MCTS

const CSquared = 3.0 // Exploration constant c = sqrt(3), squared

const VictoryReward = 10000.0 // Rollout reward for reaching the victory tile

const (
	DefaultIterations   = 1000
	DefaultRolloutDepth = 300
)
