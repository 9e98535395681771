package experiments

import (
	"mcts2048/experiments/metrics"

	"github.com/samber/lo"
)

// Throughput returns the rollout episodes per second of search time for
// each agent config. Agents that never searched are absent.
func Throughput(records []metrics.MoveRecord) map[int]float64 {
	byAgent := lo.GroupBy(records, func(r metrics.MoveRecord) int { return r.Agent })
	throughput := map[int]float64{}
	for id, moves := range byAgent {
		episodes := lo.SumBy(moves, func(r metrics.MoveRecord) int { return r.Episodes })
		seconds := lo.SumBy(moves, func(r metrics.MoveRecord) float64 { return r.Duration.Seconds() })
		if episodes == 0 || seconds == 0 {
			continue
		}
		throughput[id] = float64(episodes) / seconds
	}
	return throughput
}
