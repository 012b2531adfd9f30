package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/messages"
)

func (api *AdminAPI) registerMessageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceMessages)
	mux.HandleFunc("GET "+root, api.handleMessageList)
	mux.HandleFunc("GET "+joinPath(root, "stats"), api.handleMessageStats)
	mux.HandleFunc("GET "+root+"/{id}", api.handleMessageGet)
	mux.HandleFunc("POST "+root+"/{id}/reply", api.handleMessageReply)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleMessageDelete)
}

func (api *AdminAPI) handleMessageList(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	q, err := listQuery(r, messages.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.messages.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	stats, err := api.messages.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, stats)
}

// handleMessageGet returns the message and marks it read.
func (api *AdminAPI) handleMessageGet(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	msg, err := api.messages.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, msg)
}

func (api *AdminAPI) handleMessageReply(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req messages.ReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ID = id
	req.ActorID = actorID(r)
	msg, err := api.messages.Reply(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, msg)
}

func (api *AdminAPI) handleMessageDelete(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.messages.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "message deleted")
}
