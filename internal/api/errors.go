package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codecraft-dev/codecraft-server/internal/api/respond"
	"github.com/codecraft-dev/codecraft-server/internal/model"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrUserNotFound):
		respond.WriteNotFound(w, "user not found")
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case errors.Is(err, model.ErrAlreadySaved):
		respond.WriteConflict(w, "review already saved")
	case errors.Is(err, model.ErrAccessDenied):
		respond.WriteForbidden(w, "access denied")
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}
