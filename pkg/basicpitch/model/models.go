package model

import "time"

// WindowedAudio is one model-sized slice of the input stream.
type WindowedAudio struct {
	Samples []float64 // always one full window of samples, zero-padded at the edges
	Index   int       // position of the window in the stream, starting at 0
}

// ModelOutput holds the three confidence grids the model produces for one
// window. Grids are frame-major: grid[frame][channel].
type ModelOutput struct {
	Notes    [][]float64 // frames x 88, sustained note energy
	Onsets   [][]float64 // frames x 88, note attack energy
	Contours [][]float64 // frames x 264, 3 bins per semitone
}

// Timeline is the merged full-length version of the per-window grids.
type Timeline struct {
	Notes    [][]float64
	Onsets   [][]float64
	Contours [][]float64
	Frames   int
}

// NoteEvent is one detected note.
type NoteEvent struct {
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Pitch      int     `json:"pitch"` // MIDI note number
	Confidence float64 `json:"confidence"`
}

// Transcription is the final result of a pipeline run.
type Transcription struct {
	ID        string      `json:"id,omitempty"`
	Source    string      `json:"source"`
	Notes     []NoteEvent `json:"notes"`
	Tempo     float64     `json:"tempo"`
	Duration  float64     `json:"duration_sec"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// MergeStats accumulates value statistics for one grid while windows are
// merged. Normalized records whether the sigmoid pass was applied.
type MergeStats struct {
	Min        float64
	Max        float64
	Sum        float64
	Count      int
	Normalized bool
}

func (s *MergeStats) Observe(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Sum += v
	s.Count++
}

// Mean returns the average observed value, 0 when nothing was observed.
func (s *MergeStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// OutOfRange reports whether any observed value falls outside [0, 1].
func (s *MergeStats) OutOfRange() bool {
	return s.Count > 0 && (s.Min < 0 || s.Max > 1)
}
