package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// apiError is the wire shape shared by all error responses.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondJSON writes a JSON body with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// respondError sends a structured error response. Validation and not-found
// outcomes are expected and logged at Warn; only 5xx responses are logged as
// exceptional, and internal details never go beyond the error message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	logEntry := s.logger.WithFields(logrus.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"status_code": statusCode,
		"message":     message,
	})

	if err != nil {
		logEntry = logEntry.WithError(err)
	}

	if statusCode >= 500 {
		logEntry.Error("Server error")
	} else {
		logEntry.Warn("Client error")
	}

	body := apiError{Error: message}
	if statusCode >= 500 && err != nil {
		body.Details = err.Error()
	}

	s.respondJSON(w, statusCode, body)
}

// respondFault converts an unexpected store or handler failure into the
// generic 500 body.
func (s *Server) respondFault(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, http.StatusInternalServerError, "Internal Server Error", err)
}
