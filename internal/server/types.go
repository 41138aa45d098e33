package server

import (
	"time"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// NoteDTO represents one note event in API responses
type NoteDTO struct {
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Pitch      int     `json:"pitch"`
	Confidence float64 `json:"confidence"`
}

// TranscriptionDTO represents a transcription in API responses
type TranscriptionDTO struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Tempo       float64   `json:"tempo"`
	DurationSec float64   `json:"duration_sec"`
	NoteCount   int       `json:"note_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Notes       []NoteDTO `json:"notes,omitempty"`
}

// TranscribeResponse is the response for POST /transcribe
type TranscribeResponse struct {
	Message       string           `json:"message"`
	Transcription TranscriptionDTO `json:"transcription"`
}

// ListTranscriptionsResponse is the response for GET /transcriptions
type ListTranscriptionsResponse struct {
	Transcriptions []TranscriptionDTO `json:"transcriptions"`
	Count          int                `json:"count"`
}

// DeleteTranscriptionResponse is the response for DELETE /transcriptions/{id}
type DeleteTranscriptionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func toTranscriptionDTO(t model.Transcription, includeNotes bool) TranscriptionDTO {
	dto := TranscriptionDTO{
		ID:          t.ID,
		Source:      t.Source,
		Tempo:       t.Tempo,
		DurationSec: t.Duration,
		NoteCount:   len(t.Notes),
		CreatedAt:   t.CreatedAt,
	}
	if includeNotes {
		dto.Notes = make([]NoteDTO, len(t.Notes))
		for i, n := range t.Notes {
			dto.Notes[i] = NoteDTO{
				StartSec:   n.StartSec,
				EndSec:     n.EndSec,
				Pitch:      n.Pitch,
				Confidence: n.Confidence,
			}
		}
	}
	return dto
}
