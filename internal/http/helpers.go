package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Error codes carried in the response envelope.
const (
	CodeValidation  = "VALIDATION_FAILED"
	CodeBadRequest  = "BAD_REQUEST"
	CodeInvalidJSON = "INVALID_JSON"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout     = "TIMEOUT"
	CodeInternal    = "INTERNAL_ERROR"
)

// badRequest marks client errors detected by the handlers themselves.
type badRequest struct {
	code string
	err  error
}

func (e *badRequest) Error() string { return e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func invalidJSON(err error) error {
	return &badRequest{code: CodeInvalidJSON, err: fmt.Errorf("invalid request body: %w", err)}
}

func invalidParam(name string, err error) error {
	return &badRequest{code: CodeBadRequest, err: fmt.Errorf("invalid %s: %w", name, err)}
}

var clientErrors = []error{
	posts.ErrSlugRequired,
	posts.ErrSlugInvalid,
	posts.ErrStatusInvalid,
	careers.ErrSlugRequired,
	careers.ErrSlugInvalid,
	careers.ErrStatusInvalid,
	portfolio.ErrSlugRequired,
	portfolio.ErrStatusInvalid,
	messages.ErrStatusInvalid,
	messages.ErrReplyRequired,
	notifications.ErrStateInvalid,
	notifications.ErrUserRequired,
	users.ErrStatusInvalid,
	activity.ErrFormatUnsupported,
	activity.ErrActionRequired,
	content.ErrEntriesRequired,
	newsletter.ErrStatusInvalid,
	listing.ErrInvalidDate,
}

var conflictErrors = []error{
	posts.ErrSlugExists,
	careers.ErrSlugExists,
	portfolio.ErrSlugExists,
	users.ErrEmailExists,
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return invalidJSON(io.EOF)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return invalidJSON(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK[T any](w http.ResponseWriter, status int, data T) {
	writeJSON(w, status, shared.OK(data))
}

func writeMessage(w http.ResponseWriter, message string) {
	resp := shared.OK[any](nil)
	resp.Message = message
	writeJSON(w, http.StatusOK, resp)
}

func writePage[T any](w http.ResponseWriter, result listing.Result[T]) {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, shared.Paged(items, result.Pagination))
}

func writeUnavailable(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusServiceUnavailable, shared.Fail(CodeUnavailable, what+" service unavailable", nil))
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, shared.Response[any]) {
	if err == nil {
		return http.StatusInternalServerError, shared.Fail(CodeInternal, "unknown error", nil)
	}

	var bad *badRequest
	if errors.As(err, &bad) {
		return http.StatusBadRequest, shared.Fail(bad.code, bad.Error(), nil)
	}

	if details := validation.Details(err); details != nil {
		return http.StatusBadRequest, shared.Fail(CodeValidation, "validation failed", details)
	}

	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, shared.Fail(CodeNotFound, notFound.Error(), nil)
	}
	var unknown *commands.UnknownResourceError
	if errors.As(err, &unknown) {
		return http.StatusNotFound, shared.Fail(CodeNotFound, unknown.Error(), nil)
	}

	if store.IsConflict(err) || matchesAny(err, conflictErrors) {
		return http.StatusConflict, shared.Fail(CodeConflict, err.Error(), nil)
	}

	if matchesAny(err, clientErrors) {
		return http.StatusBadRequest, shared.Fail(CodeBadRequest, err.Error(), nil)
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, shared.Fail(CodeValidation, err.Error(), nil)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, shared.Fail(CodeTimeout, "request timed out", nil)
	}

	return http.StatusInternalServerError, shared.Fail(CodeInternal, "internal server error", nil)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, invalidParam("id", errors.New("uuid required"))
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, invalidParam("id", err)
	}
	return parsed, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return parseUUID(r.PathValue("id"))
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntQuery(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func listQuery[T any](r *http.Request, spec listing.Spec[T]) (listing.Query, error) {
	return listing.ParseQuery(r.URL.Query(), spec.FilterNames()...)
}

// actorID is the authenticated actor recorded by the request middleware.
func actorID(r *http.Request) uuid.UUID {
	info, _ := activity.RequestFromContext(r.Context())
	return info.ActorID
}

func clientIP(r *http.Request) string {
	info, ok := activity.RequestFromContext(r.Context())
	if ok && info.IP != "" {
		return info.IP
	}
	return remoteIP(r)
}
