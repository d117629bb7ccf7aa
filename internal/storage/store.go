// Package storage persists integrator run results to disk: one metadata.json
// plus one states.csv per run directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/beuler/internal/dae"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata records one integration's configuration and outcome statistics.
type RunMetadata struct {
	ID                  string    `json:"id"`
	Problem             string    `json:"problem"`
	Timestamp           time.Time `json:"timestamp"`
	RelTol              float64   `json:"reltol"`
	AbsTol              float64   `json:"abstol"`
	TargetT             float64   `json:"target_t"`
	ReachedT            float64   `json:"reached_t"`
	StepsAccepted       int       `json:"steps_accepted"`
	ConvergenceFailures int       `json:"convergence_failures"`
	TruncationFailures  int       `json:"truncation_failures"`
	NewtonIterations    int       `json:"newton_iterations"`
	FunctionEvals       int       `json:"function_evals"`
}

// Save writes metadata.json and a states.csv trajectory dump (time plus
// one column per state component) for one run.
func (s *Store) Save(problem string, reltol, abstol, targetT, reachedT float64, stats dae.Statistics, times []float64, states []dae.Vector) (string, error) {
	runID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                  runID,
		Problem:             problem,
		Timestamp:           time.Now(),
		RelTol:              reltol,
		AbsTol:              abstol,
		TargetT:             targetT,
		ReachedT:            reachedT,
		StepsAccepted:       stats.StepsAccepted,
		ConvergenceFailures: stats.ConvergenceFailures,
		TruncationFailures:  stats.TruncationFailures,
		NewtonIterations:    stats.NewtonIterations,
		FunctionEvals:       stats.FunctionEvals,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if len(states) == 0 {
		return runID, nil
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, state := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, v := range state {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
