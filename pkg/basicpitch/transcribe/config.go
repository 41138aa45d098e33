package transcribe

import "fmt"

// ProcessorConfig holds the tunables for turning model output into notes.
// Zero values are not usable; start from DefaultProcessorConfig.
type ProcessorConfig struct {
	// NoteThreshold is the minimum note confidence for a frame to count
	// as active, in [0, 1].
	NoteThreshold float64 `yaml:"note_threshold"`

	// OnsetThreshold is the minimum onset confidence for a frame to count
	// as an attack, in [0, 1].
	OnsetThreshold float64 `yaml:"onset_threshold"`

	// MinNoteDuration drops segments shorter than this many seconds.
	MinNoteDuration float64 `yaml:"min_note_duration"`

	// OverlappingFrames is the frame overlap between consecutive windows.
	// Must be even and leave a positive window hop.
	OverlappingFrames int `yaml:"overlapping_frames"`

	// Normalize squashes grids through a sigmoid when values fall
	// outside [0, 1].
	Normalize bool `yaml:"normalize"`

	// SplitOnOnsets breaks a sustained run into separate notes at
	// detected attacks.
	SplitOnOnsets bool `yaml:"split_on_onsets"`

	// MinFramesBetweenOnsets ignores onsets closer than this to the
	// start of the open segment when splitting.
	MinFramesBetweenOnsets int `yaml:"min_frames_between_onsets"`
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		NoteThreshold:          0.3,
		OnsetThreshold:         0.5,
		MinNoteDuration:        0.127,
		OverlappingFrames:      DefaultOverlappingFrames,
		Normalize:              true,
		SplitOnOnsets:          true,
		MinFramesBetweenOnsets: 3,
	}
}

// Validate checks every field before the pipeline runs. The first bad
// field is reported with its value.
func (c ProcessorConfig) Validate() error {
	if c.NoteThreshold < 0 || c.NoteThreshold > 1 {
		return fmt.Errorf("note threshold %v outside [0, 1]", c.NoteThreshold)
	}
	if c.OnsetThreshold < 0 || c.OnsetThreshold > 1 {
		return fmt.Errorf("onset threshold %v outside [0, 1]", c.OnsetThreshold)
	}
	if c.MinNoteDuration < 0 {
		return fmt.Errorf("min note duration %v is negative", c.MinNoteDuration)
	}
	if c.OverlappingFrames < 0 {
		return fmt.Errorf("overlapping frames %d is negative", c.OverlappingFrames)
	}
	if c.OverlappingFrames%2 != 0 {
		return fmt.Errorf("overlapping frames %d is not even", c.OverlappingFrames)
	}
	if c.OverlappingFrames*FFTHop >= AudioWindowLength {
		return fmt.Errorf("overlap of %d frames (%d samples) leaves no window hop",
			c.OverlappingFrames, c.OverlappingFrames*FFTHop)
	}
	if c.MinFramesBetweenOnsets < 0 {
		return fmt.Errorf("min frames between onsets %d is negative", c.MinFramesBetweenOnsets)
	}
	return nil
}
