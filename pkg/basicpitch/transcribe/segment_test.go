package transcribe

import (
	"math"
	"testing"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// silentTimeline builds an all-zero timeline with the model's channel
// counts.
func silentTimeline(frames int) model.Timeline {
	fill := func(channels int) [][]float64 {
		grid := make([][]float64, frames)
		for f := range grid {
			grid[f] = make([]float64, channels)
		}
		return grid
	}
	return model.Timeline{
		Notes:    fill(AnnotationsNSemitones),
		Onsets:   fill(AnnotationsNSemitones),
		Contours: fill(ContourChannels),
		Frames:   frames,
	}
}

func TestSegmentSplitsRunAtOnset(t *testing.T) {
	tl := silentTimeline(20)
	const ch = 39 // pitch 60
	for f := 0; f < 10; f++ {
		tl.Notes[f][ch] = 0.8
	}
	tl.Onsets[5][ch] = 0.9

	cfg := DefaultProcessorConfig()
	cfg.MinNoteDuration = 0

	events := Segment(tl, cfg)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	// The scan looks two frames ahead, so the run breaks at frame 3.
	first, second := events[0], events[1]
	if first.StartSec != 0 || first.EndSec != 3/AnnotationsFPS {
		t.Errorf("First event spans [%f, %f], want [0, %f]",
			first.StartSec, first.EndSec, 3/AnnotationsFPS)
	}
	if second.StartSec != 3/AnnotationsFPS || second.EndSec != 10/AnnotationsFPS {
		t.Errorf("Second event spans [%f, %f], want [%f, %f]",
			second.StartSec, second.EndSec, 3/AnnotationsFPS, 10/AnnotationsFPS)
	}
	if first.Pitch != ch+MIDIOffset || second.Pitch != ch+MIDIOffset {
		t.Errorf("Expected pitch %d for both events, got %d and %d",
			ch+MIDIOffset, first.Pitch, second.Pitch)
	}
}

func TestSegmentOnsetTooCloseToStartDoesNotSplit(t *testing.T) {
	tl := silentTimeline(20)
	const ch = 10
	for f := 0; f < 10; f++ {
		tl.Notes[f][ch] = 0.8
	}
	// Within MinFramesBetweenOnsets of the run start.
	tl.Onsets[2][ch] = 0.9

	cfg := DefaultProcessorConfig()
	cfg.MinNoteDuration = 0

	events := Segment(tl, cfg)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].StartSec != 0 || events[0].EndSec != 10/AnnotationsFPS {
		t.Errorf("Event spans [%f, %f], want the full run",
			events[0].StartSec, events[0].EndSec)
	}
}

func TestSegmentSplitDisabled(t *testing.T) {
	tl := silentTimeline(20)
	const ch = 39
	for f := 0; f < 10; f++ {
		tl.Notes[f][ch] = 0.8
	}
	tl.Onsets[5][ch] = 0.9

	cfg := DefaultProcessorConfig()
	cfg.MinNoteDuration = 0
	cfg.SplitOnOnsets = false

	events := Segment(tl, cfg)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event with splitting off, got %d", len(events))
	}
}

func TestSegmentMinDurationFilter(t *testing.T) {
	tl := silentTimeline(40)
	// 10 frames is just under the default minimum, 11 frames just over.
	for f := 0; f < 10; f++ {
		tl.Notes[f][10] = 0.8
	}
	for f := 0; f < 11; f++ {
		tl.Notes[f][11] = 0.8
	}

	events := Segment(tl, DefaultProcessorConfig())
	if len(events) != 1 {
		t.Fatalf("Expected only the 11-frame run to survive, got %d events", len(events))
	}
	if events[0].Pitch != 11+MIDIOffset {
		t.Errorf("Surviving event has pitch %d, want %d", events[0].Pitch, 11+MIDIOffset)
	}
}

func TestSegmentGapBreaksRun(t *testing.T) {
	tl := silentTimeline(20)
	const ch = 5
	for f := 0; f < 5; f++ {
		tl.Notes[f][ch] = 0.6
	}
	for f := 8; f < 13; f++ {
		tl.Notes[f][ch] = 0.6
	}

	cfg := DefaultProcessorConfig()
	cfg.MinNoteDuration = 0

	events := Segment(tl, cfg)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events across the gap, got %d", len(events))
	}
	if events[1].StartSec != 8/AnnotationsFPS {
		t.Errorf("Second event starts at %f, want %f", events[1].StartSec, 8/AnnotationsFPS)
	}
}

func TestSegmentConfidenceIsMeanActivation(t *testing.T) {
	tl := silentTimeline(20)
	const ch = 30
	values := []float64{0.4, 0.6, 0.8}
	for i, v := range values {
		tl.Notes[i][ch] = v
	}

	cfg := DefaultProcessorConfig()
	cfg.MinNoteDuration = 0

	events := Segment(tl, cfg)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if got := events[0].Confidence; math.Abs(got-0.6) > 1e-12 {
		t.Errorf("Confidence %f, want 0.6", got)
	}
}

func TestSegmentOrdering(t *testing.T) {
	tl := silentTimeline(60)
	for f := 10; f < 30; f++ {
		tl.Notes[f][50] = 0.8
		tl.Notes[f][20] = 0.8
	}
	for f := 0; f < 21; f++ {
		tl.Notes[f][40] = 0.8
	}

	events := Segment(tl, DefaultProcessorConfig())
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Pitch != 40+MIDIOffset {
		t.Errorf("Earliest event should come first, got pitch %d", events[0].Pitch)
	}
	if events[1].Pitch != 20+MIDIOffset || events[2].Pitch != 50+MIDIOffset {
		t.Errorf("Simultaneous events not ordered by pitch: %d then %d",
			events[1].Pitch, events[2].Pitch)
	}
}

func TestSegmentEmptyTimeline(t *testing.T) {
	if events := Segment(model.Timeline{}, DefaultProcessorConfig()); len(events) != 0 {
		t.Errorf("Expected no events from an empty timeline, got %d", len(events))
	}

	// All-zero grids carry no suprathreshold frames either.
	if events := Segment(silentTimeline(50), DefaultProcessorConfig()); len(events) != 0 {
		t.Errorf("Expected no events from a silent timeline, got %d", len(events))
	}
}
