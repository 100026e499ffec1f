package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecraft-dev/codecraft-server/internal/api/respond"
	"github.com/codecraft-dev/codecraft-server/internal/auth"
)

// authorize resolves the request's bearer token. On failure it writes a
// 401 and returns ok=false.
func authorize(w http.ResponseWriter, r *http.Request, a auth.Authorizer) (*auth.Identity, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	id, err := a.Authorize(r.Context(), token)
	if err != nil {
		respond.WriteUnauthorized(w, "invalid token")
		return nil, false
	}
	return id, true
}

// authorizePathIdentity additionally requires the authorized identity to
// match the {identityId} path variable. A mismatch yields 403.
func authorizePathIdentity(w http.ResponseWriter, r *http.Request, a auth.Authorizer) (*auth.Identity, bool) {
	id, ok := authorize(w, r, a)
	if !ok {
		return nil, false
	}
	if pathID := mux.Vars(r)["identityId"]; pathID != id.IdentityID {
		respond.WriteForbidden(w, "token identity does not match path identity")
		return nil, false
	}
	return id, true
}
