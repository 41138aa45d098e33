package basicpitch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/audio"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/spectral"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/transcribe"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

// transcriptionService is the default implementation of the Service interface.
type transcriptionService struct {
	storage   Storage
	predictor transcribe.Predictor
	log       Logger
	config    *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}
	// File values fill gaps; explicit options keep the last word.
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Processor.Validate(); err != nil {
		return nil, fmt.Errorf("invalid processor config: %w", err)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Predictor == nil {
		cfg.Predictor = spectral.NewAnalyzer()
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &transcriptionService{
		storage:   stor,
		predictor: cfg.Predictor,
		log:       cfg.Logger,
		config:    cfg,
	}, nil
}

// Transcribe converts an audio file into note events and optionally
// persists the result.
func (s *transcriptionService) Transcribe(ctx context.Context, audioPath string, save bool) (*model.Transcription, error) {
	s.log.Infof("Transcribing: %s", audioPath)

	// 1. Probe the container, best effort
	if meta, err := audio.ReadMetadata(ctx, audioPath); err == nil {
		s.log.Infof("Input: %s, %.1fs, %d Hz, %d channel(s)", meta.Format, meta.DurationSec, meta.SampleRate, meta.Channels)
	} else {
		s.log.Debugf("Skipping metadata probe: %v", err)
	}

	// 2. Decode, converting through ffmpeg when the input is not plain WAV
	samples, rate, err := audio.ReadWAV(audioPath)
	if err != nil {
		s.log.Debugf("Direct WAV decode failed (%v), converting", err)
		wavPath, convErr := audio.ConvertToMonoWAV(ctx, audioPath, s.config.TempDir, audio.ConvertWAVConfig{
			SampleRate: transcribe.SampleRate,
		})
		if convErr != nil {
			return nil, fmt.Errorf("audio conversion failed: %w", convErr)
		}
		samples, rate, err = audio.ReadWAV(wavPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read converted WAV: %w", err)
		}
	}

	return s.transcribe(ctx, samples, rate, filepath.Base(audioPath), save)
}

// TranscribeSamples runs the pipeline on raw samples without touching
// the filesystem or the database.
func (s *transcriptionService) TranscribeSamples(ctx context.Context, samples []float64, sampleRate int, source string) (*model.Transcription, error) {
	return s.transcribe(ctx, samples, sampleRate, source, false)
}

func (s *transcriptionService) transcribe(ctx context.Context, samples []float64, rate int, source string, save bool) (*model.Transcription, error) {
	// Resample to the model rate
	if rate != transcribe.SampleRate {
		resampled, err := audio.Resample(samples, rate, transcribe.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("resampling from %d Hz: %w", rate, err)
		}
		s.log.Infof("Resampled %d Hz -> %d Hz (%d samples)", rate, transcribe.SampleRate, len(resampled))
		samples = resampled
	}

	// Run the note transcription pipeline
	res, err := transcribe.Process(ctx, samples, s.predictor, s.config.Processor, s.log)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	t := &model.Transcription{
		Source:    source,
		Notes:     res.Notes,
		Tempo:     res.Tempo,
		Duration:  float64(len(samples)) / float64(transcribe.SampleRate),
		CreatedAt: time.Now(),
	}

	// Persist when asked to
	if save {
		id, err := s.storage.SaveTranscription(*t)
		if err != nil {
			return nil, fmt.Errorf("failed to save transcription: %w", err)
		}
		t.ID = id
		s.log.Infof("Saved transcription %s (%d notes)", id, len(t.Notes))
	}

	return t, nil
}

// GetTranscription retrieves a stored transcription with its notes.
func (s *transcriptionService) GetTranscription(id string) (model.Transcription, error) {
	return s.storage.GetTranscription(id)
}

// ListTranscriptions returns stored transcription headers, newest first.
func (s *transcriptionService) ListTranscriptions() ([]model.Transcription, error) {
	return s.storage.ListTranscriptions()
}

// FindTranscriptionsBySource returns stored headers for one source name.
func (s *transcriptionService) FindTranscriptionsBySource(source string) ([]model.Transcription, error) {
	return s.storage.FindTranscriptionsBySource(source)
}

// DeleteTranscription removes a transcription and its notes.
func (s *transcriptionService) DeleteTranscription(id string) error {
	return s.storage.DeleteTranscription(id)
}

// Close releases all resources held by the service.
func (s *transcriptionService) Close() error {
	return s.storage.Close()
}
