package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// fallbackBody is served when a response value itself refuses to marshal.
// Built once at startup so the failure path never re-enters the encoder.
var fallbackBody = mustMarshal(models.Error("Internal server error"))

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("api: fallback response does not marshal: " + err.Error())
	}
	return data
}

// writeJSONResponse marshals before touching the ResponseWriter so a bad
// payload degrades to the fallback body instead of a half-written response.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	body, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		body = fallbackBody
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", err)
	}
}
