package http

import (
	"net/http"

	"github.com/google/uuid"
)

// Admin resource path segments. Bulk targets are registered under the same
// names so their bulk routes line up with the resource routes.
const (
	ResourcePosts         = "posts"
	ResourceJobs          = "jobs"
	ResourcePortfolio     = "portfolio"
	ResourceMessages      = "messages"
	ResourceNotifications = "notifications"
	ResourceUsers         = "users"
	ResourceNewsletter    = "newsletter"
	ResourceActivity      = "activity"
	ResourceTranslations  = "translations"
	ResourceContent       = "content"
)

type bulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Status string      `json:"status"`
}

type bulkResponse struct {
	Modified int `json:"modified"`
}

// registerBulkRoutes mounts bulk-status and bulk-delete under every resource
// registered with the bulk router.
func (api *AdminAPI) registerBulkRoutes(mux *http.ServeMux, base string) {
	if api.bulk == nil {
		return
	}
	for _, resource := range api.bulk.Resources() {
		root := joinPath(base, resource)
		mux.HandleFunc("PUT "+joinPath(root, "bulk-status"), api.handleBulkStatus(resource))
		mux.HandleFunc("POST "+joinPath(root, "bulk-delete"), api.handleBulkDelete(resource))
	}
}

func (api *AdminAPI) handleBulkStatus(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		modified, err := api.bulk.SetStatus(r.Context(), resource, req.IDs, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, http.StatusOK, bulkResponse{Modified: modified})
	}
}

func (api *AdminAPI) handleBulkDelete(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		deleted, err := api.bulk.Delete(r.Context(), resource, req.IDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, http.StatusOK, bulkResponse{Modified: deleted})
	}
}
