package transcribe

import (
	"sort"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// Segment walks the merged note grid channel by channel and turns
// contiguous suprathreshold frame runs into note events. A run is broken
// where a qualifying onset lands (when splitting is enabled), and runs
// shorter than the minimum note duration are dropped. The timeline grids
// must be congruent, which Merge guarantees.
//
// Events come back sorted by start time, ties by pitch.
func Segment(tl model.Timeline, cfg ProcessorConfig) []model.NoteEvent {
	if tl.Frames == 0 || len(tl.Notes) == 0 {
		return nil
	}

	channels := len(tl.Notes[0])
	events := make([]model.NoteEvent, 0, channels) // rough capacity guess

	onset := make([]bool, len(tl.Onsets))
	for ch := 0; ch < channels; ch++ {
		for f := range tl.Onsets {
			onset[f] = tl.Onsets[f][ch] > cfg.OnsetThreshold
		}

		open := false
		var start, end int
		var sum float64
		for f := 0; f < len(tl.Notes); f++ {
			if tl.Notes[f][ch] <= cfg.NoteThreshold {
				continue
			}
			if open && f == end+1 && !splitsAt(onset, start, end, f, cfg) {
				end = f
				sum += tl.Notes[f][ch]
				continue
			}
			if open {
				events = appendEvent(events, ch, start, end, sum, cfg)
			}
			open, start, end, sum = true, f, f, tl.Notes[f][ch]
		}
		if open {
			events = appendEvent(events, ch, start, end, sum, cfg)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartSec == events[j].StartSec {
			return events[i].Pitch < events[j].Pitch
		}
		return events[i].StartSec < events[j].StartSec
	})
	return events
}

// splitsAt reports whether an onset inside the scan range
// [currentEnd, candidate+2] forces the open segment to close before the
// candidate frame joins it. Onsets at or before start+MinFramesBetweenOnsets
// do not count.
func splitsAt(onset []bool, start, end, candidate int, cfg ProcessorConfig) bool {
	if !cfg.SplitOnOnsets {
		return false
	}
	hi := candidate + 2
	if hi > len(onset)-1 {
		hi = len(onset) - 1
	}
	for o := end; o <= hi; o++ {
		if onset[o] && o > start+cfg.MinFramesBetweenOnsets {
			return true
		}
	}
	return false
}

func appendEvent(events []model.NoteEvent, ch, start, end int, sum float64, cfg ProcessorConfig) []model.NoteEvent {
	startSec := float64(start) / AnnotationsFPS
	endSec := float64(end+1) / AnnotationsFPS
	if endSec-startSec < cfg.MinNoteDuration {
		return events
	}
	frames := end - start + 1
	return append(events, model.NoteEvent{
		StartSec:   startSec,
		EndSec:     endSec,
		Pitch:      ch + MIDIOffset,
		Confidence: sum / float64(frames),
	})
}
