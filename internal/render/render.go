// Package render writes the JSON envelope every API response uses.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Session is Success for game-session responses, which repeat the id at the top level.
func Session(w http.ResponseWriter, status int, message, sessionID string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data, SessionID: sessionID})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// InternalError never exposes err. The caller logs it.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Something went wrong, please try again later")
}
