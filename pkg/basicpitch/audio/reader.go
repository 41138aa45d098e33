package audio

import (
	"fmt"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a WAV file into mono float64 samples in [-1, 1] plus
// the source sample rate. Multi-channel input is averaged down to mono.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening wav file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding wav data: %w", err)
	}

	return monoFloat(buf, int(dec.BitDepth)), buf.Format.SampleRate, nil
}

// monoFloat folds an interleaved PCM buffer down to one float64 channel.
func monoFloat(buf *gaudio.IntBuffer, bitDepth int) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}

// Resample converts samples between rates with linear interpolation and
// returns the input unchanged when the rates already match. Good enough
// for feeding the model; callers wanting band-limited quality should
// transcode through ffmpeg instead.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid resample rates %d -> %d", from, to)
	}
	if from == to || len(samples) == 0 {
		return samples, nil
	}

	step := float64(from) / float64(to)
	outLen := int(math.Floor(float64(len(samples)) * float64(to) / float64(from)))
	if outLen == 0 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * step
		left := int(pos)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(left)
		out[i] = samples[left]*(1-frac) + samples[left+1]*frac
	}
	return out, nil
}

// LoadForModel reads a WAV file and delivers mono samples at targetRate.
func LoadForModel(path string, targetRate int) ([]float64, error) {
	samples, rate, err := ReadWAV(path)
	if err != nil {
		return nil, err
	}
	resampled, err := Resample(samples, rate, targetRate)
	if err != nil {
		return nil, fmt.Errorf("resampling %s from %d Hz: %w", path, rate, err)
	}
	return resampled, nil
}
