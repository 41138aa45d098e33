package transcribe

import (
	"math"
	"sort"
)

// Tempo voting bounds.
const (
	DefaultTempo = 120.0

	minBeatInterval = 0.05 // seconds, exclusive
	maxBeatInterval = 2.0  // seconds, exclusive
	minBPM          = 40
	maxBPM          = 200
	voteSpread      = 2 // each candidate votes for [bpm-spread, bpm+spread]
	snapDistance    = 3.0
)

// canonicalTempos are the round values estimates snap to when close.
var canonicalTempos = []float64{60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160}

// beatDivisions reads an inter-onset gap as one, two, or four beats, so a
// sparse onset stream still votes for the faster pulse it implies.
var beatDivisions = []float64{1, 2, 4}

// EstimateTempo guesses the tempo from note onset times, in BPM.
//
// Every inter-onset gap inside the plausible beat range votes for the
// tempos it implies under each beat division; votes spread over a small
// neighborhood to absorb timing jitter. The strongest tempo wins, ties go
// to the slower one, and the winner snaps to a canonical value when close
// enough. Fewer than two onsets, or nothing but implausible gaps, falls
// back to DefaultTempo.
func EstimateTempo(onsets []float64) float64 {
	if len(onsets) < 2 {
		return DefaultTempo
	}

	times := append([]float64(nil), onsets...)
	sort.Float64s(times)

	votes := make(map[int]int)
	for i := 1; i < len(times); i++ {
		interval := times[i] - times[i-1]
		if interval <= minBeatInterval || interval >= maxBeatInterval {
			continue
		}
		for _, div := range beatDivisions {
			bpm := int(math.Round(60 * div / interval))
			for b := bpm - voteSpread; b <= bpm+voteSpread; b++ {
				if b < minBPM || b > maxBPM {
					continue
				}
				votes[b]++
			}
		}
	}
	if len(votes) == 0 {
		return DefaultTempo
	}

	best, bestVotes := 0, 0
	for bpm, n := range votes {
		if n > bestVotes || (n == bestVotes && bpm < best) {
			best, bestVotes = bpm, n
		}
	}

	return snapToCanonical(float64(best))
}

// snapToCanonical moves an estimate onto the canonical grid when it lands
// within snapDistance of a canonical tempo.
func snapToCanonical(bpm float64) float64 {
	bestDist := snapDistance + 1
	snapped := bpm
	for _, c := range canonicalTempos {
		d := math.Abs(bpm - c)
		if d <= snapDistance && d < bestDist {
			bestDist = d
			snapped = c
		}
	}
	return snapped
}
