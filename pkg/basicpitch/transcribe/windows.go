package transcribe

import (
	"fmt"
	"math"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// Windows slices mono samples (already at SampleRate) into model-sized
// windows. The stream is front-padded with half the overlap so the first
// audible frame lands inside the first window's kept region, and the last
// window is zero-padded to full length. Overlap geometry comes from
// overlappingFrames; every returned window is exactly AudioWindowLength
// samples.
func Windows(samples []float64, overlappingFrames int) ([]model.WindowedAudio, error) {
	overlapLen := overlappingFrames * FFTHop
	hop := AudioWindowLength - overlapLen
	if hop <= 0 {
		return nil, fmt.Errorf("overlap of %d frames (%d samples) leaves no window hop",
			overlappingFrames, overlapLen)
	}

	pad := overlapLen / 2
	if len(samples) > math.MaxInt-pad {
		return nil, fmt.Errorf("input of %d samples is too large to window", len(samples))
	}

	padded := make([]float64, pad+len(samples))
	copy(padded[pad:], samples)

	var windows []model.WindowedAudio
	for start := 0; start < len(padded); start += hop {
		end := start + AudioWindowLength
		if end > len(padded) {
			end = len(padded)
		}
		w := make([]float64, AudioWindowLength)
		copy(w, padded[start:end])
		windows = append(windows, model.WindowedAudio{Samples: w, Index: len(windows)})
	}
	return windows, nil
}
