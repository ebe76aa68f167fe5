package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Envelope is the uniform response shape for every JSON endpoint:
// the payload under "data", optional request-scoped extras under "meta".
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondData writes a success envelope without a meta section.
func RespondData(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	RespondJSON(w, logger, status, Envelope{Data: data})
}

// RespondDataMeta writes a success envelope with the given meta section.
func RespondDataMeta(w http.ResponseWriter, logger *slog.Logger, status int, data any, meta map[string]any) {
	RespondJSON(w, logger, status, Envelope{Data: data, Meta: meta})
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseObjectID extracts and validates the ObjectID from the request path.
// Returns the ID and a boolean indicating success. A malformed ID is rejected
// with a 400 before any store lookup happens.
func ParseObjectID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (primitive.ObjectID, bool) {
	pathValueID := r.PathValue("id")
	id, err := primitive.ObjectIDFromHex(pathValueID)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", pathValueID))
		return primitive.NilObjectID, false
	}
	return id, true
}
