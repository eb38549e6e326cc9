package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/swingsim/internal/dynamo"
)

type ExportFrame struct {
	Index      int          `json:"index"`
	TimeMs     float64      `json:"time_ms"`
	Positions  [][2]float64 `json:"positions"`
	LinkErrors []float64    `json:"link_errors,omitempty"`
}

type ExportData struct {
	RunMetadata
	Trajectory []ExportFrame `json:"trajectory"`
}

func exportFrames(frames []dynamo.Frame) []ExportFrame {
	out := make([]ExportFrame, len(frames))
	for i, f := range frames {
		ef := ExportFrame{
			Index:      f.Index,
			TimeMs:     millis(f.Time),
			Positions:  make([][2]float64, len(f.Positions)),
			LinkErrors: f.LinkErrors,
		}
		for j, p := range f.Positions {
			ef.Positions[j] = [2]float64{p.X, p.Y}
		}
		out[i] = ef
	}
	return out
}

// ExportJSON writes the metadata and every frame as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.Frame) error {
	data := ExportData{
		RunMetadata: *meta,
		Trajectory:  exportFrames(frames),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportMetadata writes only the run metadata.
func ExportMetadata(w io.Writer, meta *RunMetadata) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}

// WriteFramesCSV writes one row per frame: index, time in milliseconds, the
// x/y of every particle, then every link error.
func WriteFramesCSV(w io.Writer, frames []dynamo.Frame) error {
	cw := csv.NewWriter(w)

	if len(frames) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"index", "time_ms"}
	for i := range frames[0].Positions {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	for i := range frames[0].LinkErrors {
		header = append(header, fmt.Sprintf("e%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{strconv.Itoa(f.Index), strconv.FormatFloat(millis(f.Time), 'f', 6, 64)}
		for _, p := range f.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		for _, e := range f.LinkErrors {
			row = append(row, strconv.FormatFloat(e, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
