// Package api is the request/response channel: chi routes for the message
// command handlers, wrapped in the uniform JSON envelope.
package api

import (
	"chat-relay/errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// Envelope is the body of every response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(w, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// ErrorWriter renders err through the envelope, unclassified errors never leak their text.
func ErrorWriter(log *slog.Logger) func(w http.ResponseWriter, err error) {
	return func(w http.ResponseWriter, err error) {
		status := errors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", "error", err)
		} else {
			log.Debug("Request rejected", "status", status, "error", err)
		}
		writeEnvelope(w, Envelope{
			StatusCode: status,
			Data:       nil,
			Message:    errors.MessageOf(err),
			Success:    false,
		})
	}
}

func writeEnvelope(w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.StatusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}
