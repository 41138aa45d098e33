package midi

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

const ticksPerQuarter = 960

type noteEdge struct {
	tick uint32
	on   bool
	key  uint8
	vel  uint8
}

// WriteFile renders note events into a single-track Standard MIDI File at
// path. The tempo meta event pins the tick grid so event ticks line up
// with the notes' wall-clock seconds.
func WriteFile(path string, notes []model.NoteEvent, tempo float64) error {
	s, err := Build(notes, tempo)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("writing midi file: %w", err)
	}
	return nil
}

// Build assembles the SMF in memory.
func Build(notes []model.NoteEvent, tempo float64) (*smf.SMF, error) {
	if tempo <= 0 {
		return nil, fmt.Errorf("tempo %f must be positive", tempo)
	}

	edges := make([]noteEdge, 0, 2*len(notes))
	for i, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return nil, fmt.Errorf("note %d pitch %d outside the MIDI range", i, n.Pitch)
		}
		if n.EndSec < n.StartSec {
			return nil, fmt.Errorf("note %d ends before it starts", i)
		}
		on := secToTick(n.StartSec, tempo)
		off := secToTick(n.EndSec, tempo)
		if off <= on {
			off = on + 1 // keep degenerate notes audible
		}
		edges = append(edges,
			noteEdge{tick: on, on: true, key: uint8(n.Pitch), vel: velocity(n.Confidence)},
			noteEdge{tick: off, on: false, key: uint8(n.Pitch)},
		)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].tick == edges[j].tick {
			// offs go first so a same-tick retrigger is not cancelled
			return !edges[i].on && edges[j].on
		}
		return edges[i].tick < edges[j].tick
	})

	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(tempo))

	var cursor uint32
	for _, e := range edges {
		delta := e.tick - cursor
		cursor = e.tick
		if e.on {
			tr.Add(delta, midi.NoteOn(0, e.key, e.vel))
		} else {
			tr.Add(delta, midi.NoteOff(0, e.key))
		}
	}
	tr.Close(0)
	s.Tracks = append(s.Tracks, tr)

	return &s, nil
}

func secToTick(sec, tempo float64) uint32 {
	return uint32(math.Round(sec * tempo / 60 * ticksPerQuarter))
}

// velocity scales confidence into the usable MIDI range.
func velocity(confidence float64) uint8 {
	v := int(math.Round(confidence * 127))
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	return uint8(v)
}
