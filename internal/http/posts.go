package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

type importDocument struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type importRequest struct {
	Documents     []importDocument `json:"documents"`
	Publish       bool             `json:"publish"`
	Overwrite     bool             `json:"overwrite"`
	DefaultAuthor string           `json:"defaultAuthor"`
}

func (api *AdminAPI) registerPostRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourcePosts)
	mux.HandleFunc("GET "+root, api.handlePostList)
	mux.HandleFunc("POST "+root, api.handlePostCreate)
	mux.HandleFunc("GET "+joinPath(root, "stats"), api.handlePostStats)
	mux.HandleFunc("POST "+joinPath(root, "import"), api.handlePostImport)
	mux.HandleFunc("GET "+root+"/{id}", api.handlePostGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handlePostUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handlePostDelete)
	mux.HandleFunc("GET "+root+"/{id}/preview", api.handlePostPreview)
}

func (api *AdminAPI) handlePostList(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	q, err := listQuery(r, posts.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.posts.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	var req posts.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ActorID = actorID(r)
	post, err := api.posts.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, post)
}

func (api *AdminAPI) handlePostGet(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := api.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, post)
}

func (api *AdminAPI) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req posts.UpdatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ID = id
	req.ActorID = actorID(r)
	post, err := api.posts.Update(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, post)
}

func (api *AdminAPI) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.posts.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "post deleted")
}

func (api *AdminAPI) handlePostStats(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	counts, err := api.posts.CountByStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, counts)
}

// handlePostPreview renders a post, whatever its status, for one locale.
func (api *AdminAPI) handlePostPreview(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := api.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rendered, err := api.posts.Render(r.Context(), post, shared.ParseLocale(r.URL.Query().Get("locale")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, rendered)
}

func (api *AdminAPI) handlePostImport(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	docs := make([]markdown.Document, 0, len(req.Documents))
	for _, raw := range req.Documents {
		doc, err := markdown.Parse(raw.Path, []byte(raw.Content))
		if err != nil {
			writeError(w, invalidParam("document", err))
			return
		}
		docs = append(docs, doc)
	}
	result, err := api.posts.ImportMarkdown(r.Context(), docs, posts.ImportOptions{
		Publish:       req.Publish,
		Overwrite:     req.Overwrite,
		DefaultAuthor: req.DefaultAuthor,
		ActorID:       actorID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, result)
}
