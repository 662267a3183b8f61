package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AgentConfig struct {
	ID          int     `yaml:"id"`
	Kind        string  `yaml:"kind"` // mcts, training or random
	Iterations  int     `yaml:"iterations,omitempty"`
	Exploration float64 `yaml:"exploration,omitempty"`
	Regime      string  `yaml:"regime,omitempty"`
	Cutoff      int     `yaml:"cutoff,omitempty"`
	JointLimit  int     `yaml:"jointLimit,omitempty"`
	ExpandAll   bool    `yaml:"expandAll,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"` // training agents only
}

type Setup struct {
	Name      string          `yaml:"name"`
	Players   int             `yaml:"players"`
	Matchups  [][]AgentConfig `yaml:"matchups"`
	NumGames  int             `yaml:"numGames"` // per matchup
	Seed      uint64          `yaml:"seed"`
	StartTime time.Time       `yaml:"startTime"`
	EndTime   time.Time       `yaml:"endTime"`
	Duration  time.Duration   `yaml:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped run directory under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	path := filepath.Join(w.baseDir, "setup.yaml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return encoder.Close()
}

func (w *Writer) WriteGameRecords(records []GameMetric) error {
	header := []string{"id", "agents", "rewards", "winners", "start_time", "end_time", "duration", "turns"}
	return w.writeCSV("game_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agents),
			joinFloats(record.Rewards),
			joinInts(record.Winners),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalTurns),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveMetric) error {
	header := []string{"game", "turn", "agent", "action", "iterations", "duration", "episodes", "full_playouts", "rejections", "tree_size", "is_tree_reset"}
	return w.writeCSV("move_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Agent),
			record.Action,
			strconv.Itoa(record.Iterations),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Rejections),
			strconv.Itoa(record.TreeSize),
			strconv.FormatBool(record.IsTreeReset),
		}
	})
}

func (w *Writer) writeCSV(name string, header []string, n int, row func(int) []string) error {
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
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join(parts, ";")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ";")
}
