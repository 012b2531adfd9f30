package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/content"
)

type contentBulkRequest struct {
	Contents []content.EntryInput `json:"contents"`
}

func (api *AdminAPI) registerContentRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceContent)
	mux.HandleFunc("GET "+root, api.handleContentList)
	mux.HandleFunc("POST "+joinPath(root, "bulk"), api.handleContentBulk)
	mux.HandleFunc("GET "+root+"/{key}", api.handleContentGet)
	mux.HandleFunc("DELETE "+root+"/{key}", api.handleContentDelete)
}

// handleContentList returns every entry under ?prefix= ordered by key, or a
// paginated search when no prefix is given.
func (api *AdminAPI) handleContentList(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		writeUnavailable(w, "content")
		return
	}
	if prefix := strings.TrimSpace(r.URL.Query().Get("prefix")); prefix != "" {
		entries, err := api.content.List(r.Context(), prefix)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, http.StatusOK, entries)
		return
	}
	q, err := listQuery(r, content.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.content.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleContentBulk(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		writeUnavailable(w, "content")
		return
	}
	var req contentBulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	written, err := api.content.BulkUpsert(r.Context(), req.Contents, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, upsertResponse{Upserted: written})
}

func (api *AdminAPI) handleContentGet(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		writeUnavailable(w, "content")
		return
	}
	entry, err := api.content.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, entry)
}

func (api *AdminAPI) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		writeUnavailable(w, "content")
		return
	}
	if err := api.content.Delete(r.Context(), r.PathValue("key"), actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "content deleted")
}
