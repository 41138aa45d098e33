package transcribe

// Model contract. These describe the fixed input/output geometry of the
// pitch detection model and never change at runtime.
const (
	// SampleRate is the rate the model expects its input at, in Hz.
	SampleRate = 22050

	// FFTHop is the number of samples between analysis frames.
	FFTHop = 256

	// AudioWindowLength is one model window: two seconds minus one hop.
	AudioWindowLength = 2*SampleRate - FFTHop // 43844 samples

	// WindowFrames is the number of frames the model emits per window.
	WindowFrames = 2 * SampleRate / FFTHop // 172

	// AnnotationsNSemitones is the channel count of the note and onset
	// grids, covering the piano range.
	AnnotationsNSemitones = 88

	ContourBinsPerSemitone = 3
	ContourChannels        = AnnotationsNSemitones * ContourBinsPerSemitone // 264

	// MIDIOffset maps channel 0 to A0.
	MIDIOffset = 21

	// DefaultOverlappingFrames is the overlap between consecutive windows.
	DefaultOverlappingFrames = 30
)

// AnnotationsFPS is the model frame rate: one frame per FFT hop.
const AnnotationsFPS = float64(SampleRate) / float64(FFTHop)
