package spectral

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/transcribe"
)

// harmonicWeights shape the note filterbank: partial h contributes with
// weight 1/2^(h-1).
var harmonicWeights = []float64{1, 0.5, 0.25, 0.125}

// Analyzer is a self-contained Predictor built on the STFT. It stands in
// for the neural model so the pipeline runs end to end without one; the
// grids it produces are hint-grade, not model-grade.
type Analyzer struct {
	window    []float64
	noteHz    []float64 // 88 fundamentals, A0 up
	contourHz []float64 // 264 bin centers, 3 per semitone
}

func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		window:    Hann(FFTSize),
		noteHz:    make([]float64, transcribe.AnnotationsNSemitones),
		contourHz: make([]float64, transcribe.ContourChannels),
	}
	for ch := range a.noteHz {
		a.noteHz[ch] = midiToHz(float64(ch + transcribe.MIDIOffset))
	}
	for k := range a.contourHz {
		a.contourHz[k] = midiToHz(float64(transcribe.MIDIOffset) +
			float64(k)/transcribe.ContourBinsPerSemitone)
	}
	return a
}

func midiToHz(m float64) float64 {
	return 440 * math.Pow(2, (m-69)/12)
}

// Predict implements transcribe.Predictor. The window must be exactly one
// model window of samples.
func (a *Analyzer) Predict(ctx context.Context, w model.WindowedAudio) (model.ModelOutput, error) {
	if err := ctx.Err(); err != nil {
		return model.ModelOutput{}, err
	}
	if len(w.Samples) != transcribe.AudioWindowLength {
		return model.ModelOutput{}, fmt.Errorf("window %d has %d samples, want %d",
			w.Index, len(w.Samples), transcribe.AudioWindowLength)
	}

	spec := STFT(w.Samples, transcribe.WindowFrames, FFTSize, transcribe.FFTHop, a.window)

	notes := a.foldEnergies(spec, a.noteHz, harmonicWeights)
	contours := a.foldEnergies(spec, a.contourHz, harmonicWeights[:1])
	normalizeGrid(notes)
	normalizeGrid(contours)
	onsets := positiveFlux(notes)
	normalizeGrid(onsets)

	return model.ModelOutput{Notes: notes, Onsets: onsets, Contours: contours}, nil
}

// foldEnergies sums weighted harmonic magnitudes around every center
// frequency, one row per analysis frame.
func (a *Analyzer) foldEnergies(spec [][]float64, centers, weights []float64) [][]float64 {
	binHz := float64(transcribe.SampleRate) / FFTSize
	grid := make([][]float64, len(spec))
	for t, mag := range spec {
		row := make([]float64, len(centers))
		for ch, f0 := range centers {
			var e float64
			for h, wgt := range weights {
				bin := int(math.Round(f0 * float64(h+1) / binHz))
				if bin >= len(mag) {
					break
				}
				e += wgt * mag[bin]
			}
			row[ch] = e
		}
		grid[t] = row
	}
	return grid
}

// normalizeGrid maps a nonnegative grid onto [0, 1] by its own maximum.
func normalizeGrid(grid [][]float64) {
	var max float64
	for _, row := range grid {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return
	}
	for _, row := range grid {
		for c := range row {
			row[c] /= max
		}
	}
}

// positiveFlux is the frame-to-frame increase per channel, the usual
// spectral flux onset cue. The first frame has no predecessor and stays
// zero.
func positiveFlux(grid [][]float64) [][]float64 {
	flux := make([][]float64, len(grid))
	for t := range grid {
		row := make([]float64, len(grid[t]))
		if t > 0 {
			for c := range row {
				if d := grid[t][c] - grid[t-1][c]; d > 0 {
					row[c] = d
				}
			}
		}
		flux[t] = row
	}
	return flux
}
