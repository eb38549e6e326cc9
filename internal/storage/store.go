package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint32             `json:"seed"`
	FPS       int                `json:"fps"`
	Hertz     int                `json:"hertz"`
	Panic     int                `json:"panic"`
	Max       int                `json:"max"`
	Frames    int                `json:"frames"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	Stats     loop.Stats         `json:"stats"`
}

// Save writes meta and the result's frames under a new run directory and
// returns the run ID. ID, Timestamp, Frames, Metrics and Stats are filled in
// from the result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	meta.Timestamp = now
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics
	meta.Stats = result.Stats

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return meta.ID, nil
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

// FramesPath is where a run's frames are stored.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(s.FramesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	points, links := 0, 0
	for _, col := range records[0] {
		if col == "" {
			continue
		}
		switch col[0] {
		case 'x':
			points++
		case 'e':
			links++
		}
	}

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 2+2*points+links {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", framesFile, i+1, 2+2*points+links, len(record))
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
			}
			vals[j] = v
		}

		f := dynamo.Frame{
			Index:      int(vals[0]),
			Time:       time.Duration(math.Round(vals[1] * float64(time.Millisecond))),
			Positions:  make([]dynamo.Vec2, points),
			LinkErrors: make([]float64, links),
		}
		for p := 0; p < points; p++ {
			f.Positions[p] = dynamo.Vec2{X: vals[2+2*p], Y: vals[3+2*p]}
		}
		copy(f.LinkErrors, vals[2+2*points:])
		frames = append(frames, f)
	}

	return frames, nil
}
