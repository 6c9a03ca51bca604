// Package storage persists recorded runs: one directory per run holding
// metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/jointsim/internal/record"
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

// RunMetadata describes one persisted run.
type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Tau         float64            `json:"tau"`
	Ticks       int                `json:"ticks"`
	Joints      int                `json:"joints"`
	Controllers int                `json:"controllers"`
	Summary     map[string]float64 `json:"summary"`
}

// Save writes a run directory with metadata and the full sample table.
// Columns: time, then q/vel/locked/dir per joint, then applied/desired
// per controller.
func (s *Store) Save(scenario string, tau float64, seed int64, rec *record.Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		Timestamp:   time.Now(),
		Seed:        seed,
		Tau:         tau,
		Ticks:       rec.Ticks(),
		Joints:      rec.NumJoints(),
		Controllers: rec.NumControllers(),
		Summary:     rec.Summary(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(header(meta.Joints, meta.Controllers)); err != nil {
		return "", err
	}

	times := rec.Times()
	for tick := 0; tick < rec.Ticks(); tick++ {
		row := []string{strconv.FormatFloat(times[tick], 'f', 6, 64)}

		for j := 0; j < meta.Joints; j++ {
			sample := rec.JointSeries(j)[tick]
			locked := "0"
			if sample.Locked {
				locked = "1"
			}
			row = append(row,
				strconv.FormatFloat(sample.Q, 'f', 6, 64),
				strconv.FormatFloat(sample.Vel, 'f', 6, 64),
				locked,
				strconv.Itoa(sample.Direction),
			)
		}

		for c := 0; c < meta.Controllers; c++ {
			sample := rec.ControlSeries(c)[tick]
			row = append(row,
				strconv.FormatFloat(sample.Applied, 'f', 6, 64),
				strconv.FormatFloat(sample.Desired, 'f', 6, 64),
			)
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func header(joints, controllers int) []string {
	h := []string{"time"}
	for j := 0; j < joints; j++ {
		h = append(h,
			fmt.Sprintf("q%d", j),
			fmt.Sprintf("v%d", j),
			fmt.Sprintf("locked%d", j),
			fmt.Sprintf("dir%d", j),
		)
	}
	for c := 0; c < controllers; c++ {
		h = append(h,
			fmt.Sprintf("applied%d", c),
			fmt.Sprintf("desired%d", c),
		)
	}
	return h
}

// List returns the metadata of every run under the store, skipping
// directories it cannot parse.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a run's sample table back as times plus raw rows.
func (s *Store) LoadSamples(runID string) ([]float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(rec)-1)
		for _, field := range rec[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return times, rows, nil
}

// ExportJSON writes one run (metadata plus samples) as a single JSON
// document to path, or stdout when path is "-".
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, rows, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	doc := struct {
		RunMetadata
		Times   []float64   `json:"times"`
		Samples [][]float64 `json:"samples"`
	}{*meta, times, rows}

	out := os.Stdout
	if path != "-" {
		out, err = os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
