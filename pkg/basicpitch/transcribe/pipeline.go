package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// Predictor maps one audio window onto the model's confidence grids. It is
// the boundary to the actual pitch detection model; implementations may
// call out of process.
type Predictor interface {
	Predict(ctx context.Context, window model.WindowedAudio) (model.ModelOutput, error)
}

// Logger is the subset of the project logger the pipeline reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

// Result bundles everything one pipeline run produces.
type Result struct {
	Notes    []model.NoteEvent
	Tempo    float64
	Timeline model.Timeline
	Report   MergeReport
}

// Process runs the full pipeline over mono samples already at SampleRate:
// windowing, inference, overlap merge, note segmentation, tempo estimate.
// A nil log discards progress output.
func Process(ctx context.Context, samples []float64, p Predictor, cfg ProcessorConfig, log Logger) (*Result, error) {
	if log == nil {
		log = nopLogger{}
	}
	if p == nil {
		return nil, errors.New("predictor is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid processor config: %w", err)
	}

	// 1. Slice the stream into model windows.
	windows, err := Windows(samples, cfg.OverlappingFrames)
	if err != nil {
		return nil, fmt.Errorf("windowing %d samples: %w", len(samples), err)
	}
	log.Infof("step 1: sliced %d samples into %d windows", len(samples), len(windows))

	// 2. Run the model over every window.
	outputs := make([]model.ModelOutput, 0, len(windows))
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("inference cancelled at window %d: %w", w.Index, err)
		}
		out, err := p.Predict(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("predicting window %d: %w", w.Index, err)
		}
		outputs = append(outputs, out)
	}
	log.Infof("step 2: inference produced %d window outputs", len(outputs))

	// 3. Merge the per-window grids into one timeline.
	tl, rep, err := Merge(outputs, len(samples), cfg.OverlappingFrames, cfg.Normalize)
	if err != nil {
		return nil, fmt.Errorf("merging %d windows: %w", len(outputs), err)
	}
	log.Infof("step 3: merged timeline has %d frames (notes mean %.3f, onsets mean %.3f)",
		tl.Frames, rep.Notes.Mean(), rep.Onsets.Mean())
	warnNormalized(log, "notes", rep.Notes)
	warnNormalized(log, "onsets", rep.Onsets)
	warnNormalized(log, "contours", rep.Contours)

	// 4. Cut the timeline into note events.
	notes := Segment(tl, cfg)
	log.Infof("step 4: segmentation found %d notes", len(notes))

	// 5. Estimate the tempo from the note starts.
	starts := make([]float64, len(notes))
	for i, n := range notes {
		starts[i] = n.StartSec
	}
	tempo := EstimateTempo(starts)
	log.Infof("step 5: estimated tempo %.1f BPM", tempo)

	return &Result{Notes: notes, Tempo: tempo, Timeline: tl, Report: rep}, nil
}

func warnNormalized(log Logger, name string, s model.MergeStats) {
	if s.Normalized {
		log.Warnf("%s grid fell outside [0, 1] (min %.4f, max %.4f), applied sigmoid",
			name, s.Min, s.Max)
	}
}
