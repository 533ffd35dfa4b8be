package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andreusxcarvalho/SplitTON/internal/auth"
	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/service"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain error kinds to HTTP statuses. Unrecognized errors
// are storage failures: the client learns the outcome is unknown, not the
// backend's internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case isValidation(err):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCode):
		writeErrorStatus(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotParty):
		writeErrorStatus(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrAlreadySettled):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCryptoUnavailable):
		writeErrorStatus(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeErrorStatus(w, http.StatusInternalServerError, "storage error")
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		models.ErrInvalidAmount,
		models.ErrSameParticipants,
		models.ErrMissingParty,
		models.ErrEmptyCreator,
		models.ErrInvalidSource,
		models.ErrNoObligations,
		models.ErrEmptyNickname,
		models.ErrSelfFriend,
		auth.ErrEmailRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
