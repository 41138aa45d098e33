package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Analysis tunables.
const (
	// FFTSize is the analysis frame length. 2048 samples at the model
	// rate give roughly 10.8 Hz per bin.
	FFTSize = 2048
)

// Hann returns a Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// MagnitudeSpectrum converts a complex spectrum into positive-frequency
// magnitudes, Nyquist bin included.
func MagnitudeSpectrum(spectrum []complex128) []float64 {
	half := len(spectrum)/2 + 1
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// STFT computes a centered short-time spectrogram: frame t is the windowed
// FFT around sample t*hop, zero-padded past the signal edges. The result
// is time-major: spectrogram[frame][bin], always exactly frames rows.
func STFT(samples []float64, frames, fftSize, hop int, window []float64) [][]float64 {
	spectrogram := make([][]float64, 0, frames)
	half := fftSize / 2
	frame := make([]float64, fftSize)
	for t := 0; t < frames; t++ {
		center := t * hop
		for i := 0; i < fftSize; i++ {
			idx := center - half + i
			if idx < 0 || idx >= len(samples) {
				frame[i] = 0
				continue
			}
			frame[i] = samples[idx] * window[i]
		}
		spec := fft.FFTReal(frame)
		spectrogram = append(spectrogram, MagnitudeSpectrum(spec))
	}
	return spectrogram
}
