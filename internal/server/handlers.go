package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
)

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "basic-pitch API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":              "GET /health",
			"transcribe":          "POST /transcribe",
			"listTranscriptions":  "GET /transcriptions",
			"getTranscription":    "GET /transcriptions/{id}",
			"deleteTranscription": "DELETE /transcriptions/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleTranscribe handles POST /transcribe (multipart file upload)
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	// Parse multipart form (max 100MB)
	if err := r.ParseMultipartForm(100 << 20); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	save := true
	if v := r.FormValue("save"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "save must be a boolean")
			return
		}
		save = parsed
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.log.Errorf("Failed to get audio file: %v", err)
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	// Stage the upload under its original name so the stored source
	// reflects what the client sent.
	dir, err := os.MkdirTemp(s.config.TempDir, "upload_")
	if err != nil {
		s.log.Errorf("Failed to create temp dir: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.wav"
	}
	tempFile := filepath.Join(dir, name)

	out, err := os.Create(tempFile)
	if err != nil {
		s.log.Errorf("Failed to create temp file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		s.log.Errorf("Failed to save file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}
	out.Close()

	s.log.Infof("Transcribing uploaded file: %s", name)
	tr, err := s.service.Transcribe(ctx, tempFile, save)
	if err != nil {
		s.log.Errorf("Failed to transcribe: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to transcribe: %v", err))
		return
	}

	s.log.Infof("Transcribed %s: %d notes at %.1f BPM", name, len(tr.Notes), tr.Tempo)
	s.respondJSON(w, http.StatusCreated, TranscribeResponse{
		Message:       "Transcription complete",
		Transcription: toTranscriptionDTO(*tr, true),
	})
}

// handleListTranscriptions handles GET /transcriptions
func (s *Server) handleListTranscriptions(w http.ResponseWriter, r *http.Request) {
	var (
		list []model.Transcription
		err  error
	)
	if source := r.URL.Query().Get("source"); source != "" {
		list, err = s.service.FindTranscriptionsBySource(source)
	} else {
		list, err = s.service.ListTranscriptions()
	}
	if err != nil {
		s.log.Errorf("Failed to list transcriptions: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve transcriptions")
		return
	}

	dtos := make([]TranscriptionDTO, len(list))
	for i, t := range list {
		dtos[i] = toTranscriptionDTO(t, false)
	}

	s.respondJSON(w, http.StatusOK, ListTranscriptionsResponse{
		Transcriptions: dtos,
		Count:          len(dtos),
	})
}

// handleGetTranscription handles GET /transcriptions/{id}
func (s *Server) handleGetTranscription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	t, err := s.service.GetTranscription(id)
	if err != nil {
		if errors.Is(err, basicpitch.ErrNotFound) {
			s.log.Warnf("Transcription not found: %s", id)
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Transcription %s not found", id))
			return
		}
		s.log.Errorf("Failed to get transcription %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve transcription")
		return
	}

	s.respondJSON(w, http.StatusOK, toTranscriptionDTO(t, true))
}

// handleDeleteTranscription handles DELETE /transcriptions/{id}
func (s *Server) handleDeleteTranscription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.service.DeleteTranscription(id); err != nil {
		if errors.Is(err, basicpitch.ErrNotFound) {
			s.log.Warnf("Transcription not found for deletion: %s", id)
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Transcription %s not found", id))
			return
		}
		s.log.Errorf("Failed to delete transcription %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to delete transcription")
		return
	}

	s.log.Infof("Deleted transcription %s", id)
	s.respondJSON(w, http.StatusOK, DeleteTranscriptionResponse{
		Message: "Transcription deleted successfully",
		ID:      id,
	})
}
