package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/careers"
)

func (api *AdminAPI) registerCareerRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceJobs)
	mux.HandleFunc("GET "+root, api.handleJobList)
	mux.HandleFunc("POST "+root, api.handleJobCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleJobGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleJobUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleJobDelete)
}

func (api *AdminAPI) handleJobList(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	q, err := listQuery(r, careers.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.careers.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	var input careers.JobInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	input.ActorID = actorID(r)
	job, err := api.careers.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, job)
}

func (api *AdminAPI) handleJobGet(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := api.careers.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, job)
}

func (api *AdminAPI) handleJobUpdate(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input careers.JobInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	input.ActorID = actorID(r)
	job, err := api.careers.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, job)
}

func (api *AdminAPI) handleJobDelete(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.careers.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "job deleted")
}
