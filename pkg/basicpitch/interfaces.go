package basicpitch

import (
	"context"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

type Service interface {
	Transcribe(ctx context.Context, audioPath string, save bool) (*model.Transcription, error)
	TranscribeSamples(ctx context.Context, samples []float64, sampleRate int, source string) (*model.Transcription, error)
	GetTranscription(id string) (model.Transcription, error)
	ListTranscriptions() ([]model.Transcription, error)
	FindTranscriptionsBySource(source string) ([]model.Transcription, error)
	DeleteTranscription(id string) error
	Close() error
}

type Storage interface {
	SaveTranscription(t model.Transcription) (string, error)
	GetTranscription(id string) (model.Transcription, error)
	ListTranscriptions() ([]model.Transcription, error)
	FindTranscriptionsBySource(source string) ([]model.Transcription, error)
	DeleteTranscription(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
