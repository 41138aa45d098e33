package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Routes registers all HTTP routes and wraps them with CORS handling.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	router.HandleFunc("/transcriptions", s.handleListTranscriptions).Methods(http.MethodGet)
	router.HandleFunc("/transcriptions/{id}", s.handleGetTranscription).Methods(http.MethodGet)
	router.HandleFunc("/transcriptions/{id}", s.handleDeleteTranscription).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         3600,
	})
	return c.Handler(router)
}
