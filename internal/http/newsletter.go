package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/goliatone/go-sitecms/internal/newsletter"
)

type emailRequest struct {
	Email string `json:"email"`
}

func (api *AdminAPI) registerNewsletterRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceNewsletter)
	mux.HandleFunc("GET "+root, api.handleSubscriberList)
	mux.HandleFunc("GET "+joinPath(root, "count"), api.handleSubscriberCount)
	mux.HandleFunc("GET "+joinPath(root, "export"), api.handleSubscriberExport)
	mux.HandleFunc("POST "+joinPath(root, "unsubscribe"), api.handleSubscriberUnsubscribe)
}

func (api *AdminAPI) handleSubscriberList(w http.ResponseWriter, r *http.Request) {
	if api.newsletter == nil {
		writeUnavailable(w, "newsletter")
		return
	}
	q, err := listQuery(r, newsletter.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.newsletter.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleSubscriberCount(w http.ResponseWriter, r *http.Request) {
	if api.newsletter == nil {
		writeUnavailable(w, "newsletter")
		return
	}
	count, err := api.newsletter.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, countResponse{Count: count})
}

func (api *AdminAPI) handleSubscriberExport(w http.ResponseWriter, r *http.Request) {
	if api.newsletter == nil {
		writeUnavailable(w, "newsletter")
		return
	}
	q, err := listQuery(r, newsletter.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	count, err := api.newsletter.ExportCSV(r.Context(), q, &buf)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscribers.csv"`)
	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (api *AdminAPI) handleSubscriberUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if api.newsletter == nil {
		writeUnavailable(w, "newsletter")
		return
	}
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	subscriber, err := api.newsletter.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, subscriber)
}
