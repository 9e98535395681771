package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID           int
	Agent        string // mcts or random
	Iterations   int
	RolloutDepth int
	Exploration  float64
}

type GameRecord struct {
	ID int
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent int // AgentConfig.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "agent", "iterations", "rollout_depth", "exploration"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Agent,
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.RolloutDepth),
			strconv.FormatFloat(config.Exploration, 'f', 4, 64),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "seed", "score", "high_tile", "moves", "won", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			strconv.FormatUint(record.Seed, 10),
			strconv.FormatFloat(record.Score, 'f', 2, 64),
			strconv.FormatUint(uint64(record.HighTile), 10),
			strconv.Itoa(record.Moves),
			strconv.FormatBool(record.Won),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "agent", "step", "direction", "score", "high_tile", "iterations", "rollout_depth", "episodes", "skipped", "victories", "nodes", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Step),
			record.Direction,
			strconv.FormatFloat(record.Score, 'f', 2, 64),
			strconv.FormatUint(uint64(record.HighTile), 10),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.RolloutDepth),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Skipped),
			strconv.Itoa(record.Victories),
			strconv.Itoa(record.Nodes),
			record.Duration.String(),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
