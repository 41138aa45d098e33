package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service basicpitch.Service
	config  *Config
	log     basicpitch.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	TempDir        string
	AllowedOrigins []string
}

// New creates a new server instance
func New(service basicpitch.Service, config *Config) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	handler := s.Routes()

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.log.Infof("Server starting on %s", addr)
	s.log.Infof("   Temp dir: %s", s.config.TempDir)
	s.log.Infof("   CORS origins: %v", s.config.AllowedOrigins)
	s.log.Infof("Endpoints:")
	s.log.Infof("   GET    /health               - Health check")
	s.log.Infof("   POST   /transcribe           - Transcribe an uploaded audio file")
	s.log.Infof("   GET    /transcriptions       - List stored transcriptions")
	s.log.Infof("   GET    /transcriptions/{id}  - Get a transcription with its notes")
	s.log.Infof("   DELETE /transcriptions/{id}  - Delete a transcription")

	return http.ListenAndServe(addr, handler)
}
