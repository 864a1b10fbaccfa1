package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// WriteMessage writes the {"message": ..., ...} envelope the mobile client
// expects on mutation responses.
func WriteMessage(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	payload := map[string]interface{}{"message": message}
	for k, v := range extra {
		payload[k] = v
	}
	WriteJSON(w, status, payload)
}
