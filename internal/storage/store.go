package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	configFile   = "config.yaml"
)

var frameHeader = []string{"frame", "id", "mass", "radius", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Mode         string             `json:"mode"`
	Strategy     string             `json:"strategy"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	NumParticles int                `json:"num_particles"`
	Steps        int                `json:"steps"`
	StepsTaken   int                `json:"steps_taken"`
	SampleEvery  int                `json:"sample_every"`
	Boundary     string             `json:"boundary"`
	Resolver     string             `json:"resolver,omitempty"`
	Solver       string             `json:"solver,omitempty"`
	Integrator   string             `json:"integrator,omitempty"`
	Snapshots    int                `json:"snapshots"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata, sampled frames and configuration under a
// new run directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(cfg.Mode, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Mode:         cfg.Mode,
		Strategy:     result.Strategy,
		Timestamp:    now,
		Seed:         cfg.Seed,
		NumParticles: cfg.Particles.NumParticles,
		Steps:        cfg.Steps,
		StepsTaken:   result.StepsTaken,
		SampleEvery:  cfg.SampleEvery,
		Boundary:     cfg.Boundary,
		Snapshots:    len(result.Snapshots),
		Metrics:      result.Metrics,
	}
	if cfg.Mode == config.ModeCollision {
		meta.Resolver = cfg.Resolver
	} else {
		meta.Solver = cfg.Solver
		meta.Integrator = cfg.Integrator
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Snapshots); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	dynamo.Logger().Debug("run saved", "run", runID, "snapshots", len(result.Snapshots))
	return runID, nil
}

func (s *Store) newRunDir(mode string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", mode, now.UnixNano())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, snaps []dynamo.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteFramesCSV(w, snaps); err != nil {
		return err
	}
	return f.Close()
}

// WriteFramesCSV writes one row per particle per snapshot.
func WriteFramesCSV(w *csv.Writer, snaps []dynamo.Snapshot) error {
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, snap := range snaps {
		frame := strconv.FormatUint(snap.Frame, 10)
		for _, p := range snap.Particles {
			row := []string{
				frame,
				strconv.FormatUint(uint64(p.ID), 10),
				formatFloat(p.Mass()),
				formatFloat(p.Radius()),
				formatFloat(p.Position.X),
				formatFloat(p.Position.Y),
				formatFloat(p.Velocity.X),
				formatFloat(p.Velocity.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all readable runs, oldest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadFrames reads the sampled snapshots of a run back in frame order.
func (s *Store) LoadFrames(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	snaps := make([]dynamo.Snapshot, 0)
	for line, record := range records[1:] {
		p, frame, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
		}
		if n := len(snaps); n == 0 || snaps[n-1].Frame != frame {
			snaps = append(snaps, dynamo.Snapshot{Frame: frame})
		}
		last := &snaps[len(snaps)-1]
		last.Particles = append(last.Particles, p)
	}

	return snaps, nil
}

func parseRow(record []string) (dynamo.Particle, uint64, error) {
	frame, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return dynamo.Particle{}, 0, err
	}
	id, err := strconv.ParseUint(record[1], 10, 32)
	if err != nil {
		return dynamo.Particle{}, 0, err
	}

	var vals [6]float64
	for i := range vals {
		vals[i], err = strconv.ParseFloat(record[i+2], 64)
		if err != nil {
			return dynamo.Particle{}, 0, err
		}
	}

	p, err := dynamo.NewParticle(uint32(id), vals[0], vals[1],
		r2.Vec{X: vals[2], Y: vals[3]}, r2.Vec{X: vals[4], Y: vals[5]})
	return p, frame, err
}
