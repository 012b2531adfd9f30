package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-sitecms/internal/activity"
)

type purgeRequest struct {
	Before time.Time `json:"before"`
}

func (api *AdminAPI) registerActivityRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceActivity)
	mux.HandleFunc("GET "+root, api.handleActivityList)
	mux.HandleFunc("GET "+joinPath(root, "recent"), api.handleActivityRecent)
	mux.HandleFunc("GET "+joinPath(root, "export"), api.handleActivityExport)
	mux.HandleFunc("POST "+joinPath(root, "purge"), api.handleActivityPurge)
}

func (api *AdminAPI) handleActivityList(w http.ResponseWriter, r *http.Request) {
	if api.activity == nil {
		writeUnavailable(w, "activity")
		return
	}
	q, err := listQuery(r, activity.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.activity.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleActivityRecent(w http.ResponseWriter, r *http.Request) {
	if api.activity == nil {
		writeUnavailable(w, "activity")
		return
	}
	entries, err := api.activity.Recent(r.Context(), parseIntQuery(r.URL.Query().Get("limit"), 10))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*activity.Entry{}
	}
	writeOK(w, http.StatusOK, entries)
}

// handleActivityExport streams every entry matching the list filters as a
// CSV or JSON attachment.
func (api *AdminAPI) handleActivityExport(w http.ResponseWriter, r *http.Request) {
	if api.activity == nil {
		writeUnavailable(w, "activity")
		return
	}
	q, err := listQuery(r, activity.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = activity.FormatCSV
	}
	var buf bytes.Buffer
	count, err := api.activity.Export(r.Context(), q, format, &buf)
	if err != nil {
		writeError(w, err)
		return
	}
	contentType := "text/csv; charset=utf-8"
	if format == activity.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="activity-log.%s"`, format))
	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (api *AdminAPI) handleActivityPurge(w http.ResponseWriter, r *http.Request) {
	if api.activity == nil {
		writeUnavailable(w, "activity")
		return
	}
	var req purgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Before.IsZero() {
		writeError(w, invalidParam("before", errors.New("timestamp required")))
		return
	}
	purged, err := api.activity.Purge(r.Context(), req.Before)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, bulkResponse{Modified: purged})
}
