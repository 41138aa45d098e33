package transcribe

import (
	"fmt"
	"math"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// MergeReport carries the per-grid statistics collected during a merge.
type MergeReport struct {
	Notes    model.MergeStats
	Onsets   model.MergeStats
	Contours model.MergeStats
}

// Merge concatenates per-window model output into one timeline. Inner
// windows lose half the overlap on both sides, the first window keeps its
// leading frames and the last keeps its trailing frames, then the result
// is cut to the frame count implied by the original sample count. When
// normalize is set, any window grid with values outside [0, 1] is passed
// through a sigmoid before it lands in the timeline.
//
// An empty window list yields an empty timeline, not an error.
func Merge(outputs []model.ModelOutput, sampleCount, overlappingFrames int, normalize bool) (model.Timeline, MergeReport, error) {
	var tl model.Timeline
	var rep MergeReport

	if len(outputs) == 0 {
		return tl, rep, nil
	}

	halfOverlap := overlappingFrames / 2
	for i, out := range outputs {
		if len(out.Onsets) != len(out.Notes) || len(out.Contours) != len(out.Notes) {
			return model.Timeline{}, rep, fmt.Errorf(
				"window %d grids disagree on frame count: notes %d, onsets %d, contours %d",
				i, len(out.Notes), len(out.Onsets), len(out.Contours))
		}

		first := i == 0
		last := i == len(outputs)-1

		var err error
		if tl.Notes, err = appendWindowGrid(tl.Notes, out.Notes, AnnotationsNSemitones, "notes", i, first, last, halfOverlap, normalize, &rep.Notes); err != nil {
			return model.Timeline{}, rep, err
		}
		if tl.Onsets, err = appendWindowGrid(tl.Onsets, out.Onsets, AnnotationsNSemitones, "onsets", i, first, last, halfOverlap, normalize, &rep.Onsets); err != nil {
			return model.Timeline{}, rep, err
		}
		if tl.Contours, err = appendWindowGrid(tl.Contours, out.Contours, ContourChannels, "contours", i, first, last, halfOverlap, normalize, &rep.Contours); err != nil {
			return model.Timeline{}, rep, err
		}
	}

	target := OutputFrames(sampleCount)
	if len(tl.Notes) > target {
		tl.Notes = tl.Notes[:target]
		tl.Onsets = tl.Onsets[:target]
		tl.Contours = tl.Contours[:target]
	}
	tl.Frames = len(tl.Notes)
	return tl, rep, nil
}

// appendWindowGrid validates one window's grid, applies the sigmoid when
// the raw values call for it, and appends the kept frame range to dst.
// Statistics are collected over the raw values before any squashing.
func appendWindowGrid(dst [][]float64, grid [][]float64, wantChannels int, name string, idx int, first, last bool, halfOverlap int, normalize bool, stats *model.MergeStats) ([][]float64, error) {
	lo, hi := 0, len(grid)
	if !first {
		lo = halfOverlap
	}
	if !last {
		hi = len(grid) - halfOverlap
	}
	if lo > hi {
		return dst, fmt.Errorf("window %d %s grid has %d frames, cannot trim %d overlap frames",
			idx, name, len(grid), halfOverlap)
	}

	var win model.MergeStats
	for f, row := range grid {
		if len(row) != wantChannels {
			return dst, fmt.Errorf("window %d %s grid frame %d has %d channels, want %d",
				idx, name, f, len(row), wantChannels)
		}
		for _, v := range row {
			win.Observe(v)
			stats.Observe(v)
		}
	}

	squash := normalize && win.OutOfRange()
	if squash {
		stats.Normalized = true
	}

	for _, row := range grid[lo:hi] {
		out := make([]float64, len(row))
		if squash {
			for c, v := range row {
				out[c] = sigmoid(v)
			}
		} else {
			copy(out, row)
		}
		dst = append(dst, out)
	}
	return dst, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// OutputFrames returns the timeline length implied by the original
// (un-padded) sample count.
func OutputFrames(sampleCount int) int {
	return int(math.Floor(float64(sampleCount) * AnnotationsFPS / float64(SampleRate)))
}
