package transcribe

import (
	"math"
	"testing"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// uniformOutput builds a window output with every grid value set to v.
func uniformOutput(frames int, v float64) model.ModelOutput {
	fill := func(channels int) [][]float64 {
		grid := make([][]float64, frames)
		for f := range grid {
			row := make([]float64, channels)
			for c := range row {
				row[c] = v
			}
			grid[f] = row
		}
		return grid
	}
	return model.ModelOutput{
		Notes:    fill(AnnotationsNSemitones),
		Onsets:   fill(AnnotationsNSemitones),
		Contours: fill(ContourChannels),
	}
}

func TestMergeFrameCountMatchesSampleCount(t *testing.T) {
	outputs := []model.ModelOutput{
		uniformOutput(WindowFrames, 0.5),
		uniformOutput(WindowFrames, 0.5),
		uniformOutput(WindowFrames, 0.5),
	}

	const sampleCount = 100000
	tl, _, err := Merge(outputs, sampleCount, DefaultOverlappingFrames, true)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	want := OutputFrames(sampleCount)
	if want != 390 {
		t.Fatalf("OutputFrames(%d) = %d, want 390", sampleCount, want)
	}
	if tl.Frames != want {
		t.Errorf("Timeline has %d frames, want %d", tl.Frames, want)
	}
	if len(tl.Notes) != want || len(tl.Onsets) != want || len(tl.Contours) != want {
		t.Errorf("Grid lengths %d/%d/%d, want %d each",
			len(tl.Notes), len(tl.Onsets), len(tl.Contours), want)
	}
}

func TestMergeKeepsOuterEdges(t *testing.T) {
	outputs := []model.ModelOutput{
		uniformOutput(WindowFrames, 0.25),
		uniformOutput(WindowFrames, 0.75),
	}

	// 76800 samples map to exactly 300 output frames.
	tl, _, err := Merge(outputs, 76800, DefaultOverlappingFrames, true)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if tl.Frames != 300 {
		t.Fatalf("Timeline has %d frames, want 300", tl.Frames)
	}

	// First window keeps its leading frames and loses 15 trailing ones,
	// so the seam sits at frame 157.
	if got := tl.Notes[156][0]; got != 0.25 {
		t.Errorf("Frame 156 belongs to window 0: got %f, want 0.25", got)
	}
	if got := tl.Notes[157][0]; got != 0.75 {
		t.Errorf("Frame 157 belongs to window 1: got %f, want 0.75", got)
	}
	if got := tl.Notes[299][0]; got != 0.75 {
		t.Errorf("Frame 299 belongs to window 1: got %f, want 0.75", got)
	}
}

func TestMergeNormalizesOutOfRangeGrid(t *testing.T) {
	out := uniformOutput(4, 0.5)
	out.Notes[1][3] = 3.0 // push the note grid out of range

	tl, rep, err := Merge([]model.ModelOutput{out}, 4*FFTHop, DefaultOverlappingFrames, true)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if tl.Frames != 4 {
		t.Fatalf("Timeline has %d frames, want 4", tl.Frames)
	}

	// The whole note grid goes through the sigmoid, the others stay raw.
	if got, want := tl.Notes[1][3], 1.0/(1.0+math.Exp(-3.0)); math.Abs(got-want) > 1e-12 {
		t.Errorf("Out-of-range value not squashed: got %f, want %f", got, want)
	}
	if got, want := tl.Notes[0][0], 1.0/(1.0+math.Exp(-0.5)); math.Abs(got-want) > 1e-12 {
		t.Errorf("In-range value of squashed grid: got %f, want %f", got, want)
	}
	if got := tl.Onsets[0][0]; got != 0.5 {
		t.Errorf("Onset grid should stay raw, got %f", got)
	}

	if !rep.Notes.Normalized {
		t.Error("Notes stats should record the normalization")
	}
	if rep.Onsets.Normalized || rep.Contours.Normalized {
		t.Error("Only the notes grid should be marked normalized")
	}
	if rep.Notes.Max != 3.0 {
		t.Errorf("Stats should hold the raw max, got %f", rep.Notes.Max)
	}
}

func TestMergeNormalizeDisabled(t *testing.T) {
	out := uniformOutput(4, 0.5)
	out.Notes[0][0] = -2.0

	tl, rep, err := Merge([]model.ModelOutput{out}, 4*FFTHop, DefaultOverlappingFrames, false)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if got := tl.Notes[0][0]; got != -2.0 {
		t.Errorf("Value changed with normalization off: got %f", got)
	}
	if rep.Notes.Normalized {
		t.Error("Stats claim normalization ran with it disabled")
	}
	if rep.Notes.Min != -2.0 {
		t.Errorf("Stats should hold the raw min, got %f", rep.Notes.Min)
	}
}

func TestMergeEmptyWindowList(t *testing.T) {
	tl, _, err := Merge(nil, 0, DefaultOverlappingFrames, true)
	if err != nil {
		t.Fatalf("Merge failed on empty input: %v", err)
	}
	if tl.Frames != 0 || len(tl.Notes) != 0 {
		t.Errorf("Expected an empty timeline, got %d frames", tl.Frames)
	}
}

func TestMergeRejectsBadShapes(t *testing.T) {
	t.Run("wrong channel count", func(t *testing.T) {
		out := uniformOutput(4, 0.5)
		out.Notes[2] = make([]float64, 87)
		_, _, err := Merge([]model.ModelOutput{out}, 4*FFTHop, DefaultOverlappingFrames, true)
		if err == nil {
			t.Fatal("Expected a shape error for 87 channels")
		}
	})

	t.Run("disagreeing frame counts", func(t *testing.T) {
		out := uniformOutput(4, 0.5)
		out.Onsets = out.Onsets[:3]
		_, _, err := Merge([]model.ModelOutput{out}, 4*FFTHop, DefaultOverlappingFrames, true)
		if err == nil {
			t.Fatal("Expected a shape error for ragged grids")
		}
	})

	t.Run("window too short to trim", func(t *testing.T) {
		outputs := []model.ModelOutput{
			uniformOutput(10, 0.5),
			uniformOutput(10, 0.5),
		}
		_, _, err := Merge(outputs, 20*FFTHop, DefaultOverlappingFrames, true)
		if err == nil {
			t.Fatal("Expected an error when the overlap trim exceeds the window")
		}
	})
}

func TestMergeStatsAccumulate(t *testing.T) {
	outputs := []model.ModelOutput{
		uniformOutput(WindowFrames, 0.2),
		uniformOutput(WindowFrames, 0.6),
	}

	_, rep, err := Merge(outputs, 76800, DefaultOverlappingFrames, true)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	wantCount := 2 * WindowFrames * AnnotationsNSemitones
	if rep.Notes.Count != wantCount {
		t.Errorf("Notes stats saw %d values, want %d", rep.Notes.Count, wantCount)
	}
	if rep.Notes.Min != 0.2 || rep.Notes.Max != 0.6 {
		t.Errorf("Notes stats range [%f, %f], want [0.2, 0.6]", rep.Notes.Min, rep.Notes.Max)
	}
	if got := rep.Notes.Mean(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Notes stats mean %f, want 0.4", got)
	}
}
