package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kannan-innovates/zenCode"
)

// envelope is the fixed response shape of every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// statusFor maps an error kind to its status code. Rate-limit rejections
// share the client-error status with validation failures; the message
// carries the distinction.
func statusFor(kind zencode.Kind) int {
	switch kind {
	case zencode.KindValidation, zencode.KindRateLimited:
		return http.StatusBadRequest
	case zencode.KindUnauthorized:
		return http.StatusUnauthorized
	case zencode.KindForbidden:
		return http.StatusForbidden
	case zencode.KindNotFound:
		return http.StatusNotFound
	case zencode.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError decodes an engine failure into a status and user-facing
// message. Anything that is not a tagged engine error becomes an opaque
// internal error so no dependency detail leaks to clients.
func writeError(w http.ResponseWriter, err error) {
	var tagged *zencode.Error
	if errors.As(err, &tagged) {
		writeJSON(w, statusFor(tagged.Kind), envelope{Success: false, Message: tagged.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "Internal server error"})
}
