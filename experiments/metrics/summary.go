package metrics

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the games played by one agent configuration.
type Summary struct {
	Agent     int
	Games     int
	MeanScore float64
	StdScore  float64
	MeanMoves float64
	MaxTile   uint32
	WinRate   float64
}

func Summarize(agent int, games []GameMetric) Summary {
	if len(games) == 0 {
		return Summary{Agent: agent}
	}

	scores := lo.Map(games, func(g GameMetric, _ int) float64 { return g.Score })
	moves := lo.Map(games, func(g GameMetric, _ int) float64 { return float64(g.Moves) })
	mean, std := stat.MeanStdDev(scores, nil)
	if len(games) == 1 {
		std = 0
	}

	return Summary{
		Agent:     agent,
		Games:     len(games),
		MeanScore: mean,
		StdScore:  std,
		MeanMoves: stat.Mean(moves, nil),
		MaxTile:   lo.MaxBy(games, func(a, b GameMetric) bool { return a.HighTile > b.HighTile }).HighTile,
		WinRate:   float64(lo.CountBy(games, func(g GameMetric) bool { return g.Won })) / float64(len(games)),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("agent %d: %d games, score %.1f ± %.1f, %.1f moves, max tile %d, win rate %.0f%%",
		s.Agent, s.Games, s.MeanScore, s.StdScore, s.MeanMoves, s.MaxTile, s.WinRate*100)
}

const histogramBins = 10

// FprintScores draws a histogram of final game scores to w. Nothing is
// drawn when the scores span no range.
func FprintScores(w io.Writer, games []GameMetric) error {
	scores := lo.Map(games, func(g GameMetric, _ int) float64 { return g.Score })
	if len(scores) == 0 || lo.Min(scores) == lo.Max(scores) {
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(histogramBins, scores), histogram.Linear(40))
}
