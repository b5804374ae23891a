package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"risksim/battle"
)

// Writer exports run records as CSV files into a timestamped directory.
type Writer struct {
	baseDir string
}

func NewWriter(outDir string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outDir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// Dir returns the directory the writer exports into.
func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSummary(m Metrics) error {
	// Create a file
	path := filepath.Join(w.baseDir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{
		"total_battles", "attacker_losses", "defender_losses",
		"attacker_wins", "defender_wins", "draws",
		"elapsed", "battles_per_second",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	row := []string{
		strconv.FormatInt(m.Battles, 10),
		strconv.FormatInt(m.AttackerLosses, 10),
		strconv.FormatInt(m.DefenderLosses, 10),
		strconv.FormatInt(m.AttackerWins, 10),
		strconv.FormatInt(m.DefenderWins, 10),
		strconv.FormatInt(m.Draws, 10),
		m.Elapsed.String(),
		strconv.FormatFloat(m.Throughput, 'f', 0, 64),
	}
	err = writer.Write(row)
	if err != nil {
		return fmt.Errorf("failed to write summary row: %w", err)
	}

	return nil
}

func (w *Writer) WriteBattles(history []battle.Result) error {
	// Create a file
	path := filepath.Join(w.baseDir, "battles.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create battles file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"battle", "attacker_rolls", "defender_rolls", "attacker_losses", "defender_losses", "winner"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write battles header: %w", err)
	}

	// Write each row
	for i, result := range history {
		row := []string{
			strconv.Itoa(i + 1),
			joinRolls(result.AttackerRolls),
			joinRolls(result.DefenderRolls),
			strconv.Itoa(result.AttackerLosses),
			strconv.Itoa(result.DefenderLosses),
			result.Winner(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write battle row: %w", err)
		}
	}

	return nil
}

func joinRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, roll := range rolls {
		parts[i] = strconv.Itoa(roll)
	}
	return strings.Join(parts, " ")
}
