package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/users"
)

func (api *AdminAPI) registerUserRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceUsers)
	mux.HandleFunc("GET "+root, api.handleUserList)
	mux.HandleFunc("POST "+root, api.handleUserCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleUserGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleUserUpdate)
	mux.HandleFunc("PATCH "+root+"/{id}", api.handleUserUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleUserDelete)
	mux.HandleFunc("POST "+root+"/{id}/login", api.handleUserLogin)
}

func (api *AdminAPI) handleUserList(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	q, err := listQuery(r, users.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.users.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	var req users.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.CreatedBy = actorID(r)
	user, err := api.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, user)
}

func (api *AdminAPI) handleUserGet(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := api.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, user)
}

// handleUserUpdate accepts a partial document; only users.UpdatableFields
// are applied.
func (api *AdminAPI) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fields := map[string]any{}
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, err)
		return
	}
	user, err := api.users.Update(r.Context(), id, fields, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, user)
}

func (api *AdminAPI) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.users.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "user deleted")
}

func (api *AdminAPI) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	if api.users == nil {
		writeUnavailable(w, "user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := api.users.RecordLogin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, user)
}
