package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/recipes_control/internal/pkg/validation"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
)

type Error struct {
	Err    string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error": "marshal error"}`)
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	writeError(w, Error{Err: err.Error()}, code)
}

func writeError(w http.ResponseWriter, e Error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	w.Write(e.ToJSON()) //nolint:errcheck
}

// handleServiceError maps service errors to responses. Unknown errors are
// logged and hidden behind a 500.
func (s *Server) handleServiceError(w http.ResponseWriter, err error, where string) {
	var vErr *validation.Error

	switch {
	case errors.As(err, &vErr):
		writeError(w, Error{Err: "validation failed", Fields: vErr.Fields}, http.StatusBadRequest)
	case errors.Is(err, authservice.ErrInvalidCredentials):
		handleError(w, authservice.ErrInvalidCredentials, http.StatusBadRequest)
	case errors.Is(err, authservice.ErrUnauthorized):
		handleError(w, authservice.ErrUnauthorized, http.StatusUnauthorized)
	case errors.Is(err, recipeservice.ErrNotFound):
		handleError(w, recipeservice.ErrNotFound, http.StatusNotFound)
	default:
		s.lg.Errorf("%s error: %s", where, err.Error())
		handleError(w, errors.New("internal server error"), http.StatusInternalServerError) //nolint:goerr113
	}
}
