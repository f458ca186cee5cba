// Package shared centralizes JSON response writing so every handler uses the
// same envelope. Error bodies are {"error":"<code>","message":"<text>"}.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "rolodex/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {"message": ...} confirmation body.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteError translates a domain error into the standard error envelope.
// Non-domain errors map to 500 internal so store error text never leaks to
// callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal server error"

	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}
