package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/urls"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Message    string           `json:"message"`
	Error      *shared.APIError `json:"error"`
	Pagination *shared.PageMeta `json:"pagination"`
}

type harness struct {
	handler http.Handler
	actor   uuid.UUID
}

func setupAPI(t *testing.T) *harness {
	t.Helper()

	activitySvc := activity.NewService(activity.NewMemoryRepository())
	emitter := activity.NewEmitter(activitySvc)

	notificationSvc := notifications.NewService(notifications.NewMemoryRepository())
	postSvc := posts.NewService(posts.NewMemoryRepository(),
		posts.WithActivityEmitter(emitter),
		posts.WithURLResolver(urls.NewResolver(urls.DefaultConfig("https://example.com"))),
	)
	careerSvc := careers.NewService(careers.NewMemoryRepository(), careers.WithActivityEmitter(emitter))
	portfolioSvc := portfolio.NewService(portfolio.NewMemoryRepository(), portfolio.WithActivityEmitter(emitter))
	messageSvc := messages.NewService(messages.NewMemoryRepository(),
		messages.WithActivityEmitter(emitter),
		messages.WithNotifier(notificationSvc),
	)
	userSvc := users.NewService(users.NewMemoryRepository(), users.WithActivityEmitter(emitter))
	translationSvc := translations.NewService(translations.NewMemoryRepository(), translations.WithActivityEmitter(emitter))
	contentSvc, err := content.NewService(content.NewMemoryRepository(), content.WithActivityEmitter(emitter))
	if err != nil {
		t.Fatalf("content service: %v", err)
	}
	newsletterSvc := newsletter.NewService(newsletter.NewMemoryRepository(), newsletter.WithActivityEmitter(emitter))

	bulk := commands.NewBulk(nil)
	bulk.Register(ResourcePosts, postSvc)
	bulk.Register(ResourceJobs, careerSvc)
	bulk.Register(ResourcePortfolio, portfolioSvc)
	bulk.Register(ResourceMessages, messageSvc)
	bulk.Register(ResourceNotifications, notificationSvc)
	bulk.Register(ResourceUsers, userSvc)
	bulk.Register(ResourceNewsletter, newsletterSvc)

	summary := dashboard.NewService(dashboard.Sources{
		Posts:         postSvc,
		Messages:      messageSvc,
		Jobs:          careerSvc,
		Newsletter:    newsletterSvc,
		Notifications: notificationSvc,
		Activity:      activitySvc,
	})

	mux := http.NewServeMux()
	admin := NewAdminAPI(
		WithPostService(postSvc),
		WithCareerService(careerSvc),
		WithPortfolioService(portfolioSvc),
		WithMessageService(messageSvc),
		WithNotificationService(notificationSvc),
		WithUserService(userSvc),
		WithActivityService(activitySvc),
		WithTranslationService(translationSvc),
		WithContentService(contentSvc),
		WithNewsletterService(newsletterSvc),
		WithDashboard(summary),
		WithBulk(bulk),
	)
	if err := admin.Register(mux); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	public := NewPublicAPI(
		WithPublicServices(postSvc, careerSvc, portfolioSvc, messageSvc, newsletterSvc, translationSvc, contentSvc),
		WithURLResolver(urls.NewResolver(urls.DefaultConfig("https://example.com"))),
	)
	if err := public.Register(mux); err != nil {
		t.Fatalf("register public: %v", err)
	}

	return &harness{handler: WithRequestInfo(mux), actor: uuid.New()}
}

func (h *harness) do(t *testing.T, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	return doJSONRequest(t, h.handler, method, path, body, wantStatus, h.actor)
}

func TestContactSubmissionReachesInboxAndBulkArchive(t *testing.T) {
	h := setupAPI(t)

	for _, name := range []string{"Sara Ali", "John Smith"} {
		h.do(t, http.MethodPost, "/api/contact", map[string]any{
			"name":    name,
			"email":   "visitor@example.com",
			"subject": "Project enquiry",
			"message": "We would like to discuss a new website.",
		}, http.StatusCreated)
	}

	var list envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/messages?status=unread", nil, http.StatusOK), &list)
	if !list.Success || list.Pagination == nil || list.Pagination.Total != 2 {
		t.Fatalf("expected two unread messages, got %+v", list)
	}
	var inbox []*messages.Message
	if err := json.Unmarshal(list.Data, &inbox); err != nil {
		t.Fatalf("decode messages: %v", err)
	}

	ids := []string{inbox[0].ID.String(), inbox[1].ID.String()}
	var bulkResp envelope
	decodeJSONBody(t, h.do(t, http.MethodPut, "/admin/api/messages/bulk-status", map[string]any{
		"ids":    ids,
		"status": "archived",
	}, http.StatusOK), &bulkResp)
	var modified bulkResponse
	if err := json.Unmarshal(bulkResp.Data, &modified); err != nil {
		t.Fatalf("decode bulk: %v", err)
	}
	if modified.Modified != 2 {
		t.Fatalf("expected 2 modified, got %d", modified.Modified)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/messages?status=archived", nil, http.StatusOK), &list)
	if list.Pagination.Total != 2 {
		t.Fatalf("expected archived messages, got %d", list.Pagination.Total)
	}

	var invalid envelope
	decodeJSONBody(t, h.do(t, http.MethodPut, "/admin/api/messages/bulk-status", map[string]any{
		"ids":    ids,
		"status": "exploded",
	}, http.StatusBadRequest), &invalid)
	if invalid.Success || invalid.Error == nil {
		t.Fatalf("expected error envelope, got %+v", invalid)
	}

	var unread envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/notifications/unread-count", nil, http.StatusOK), &unread)
	var count countResponse
	if err := json.Unmarshal(unread.Data, &count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count.Count != 2 {
		t.Fatalf("expected a broadcast notification per message, got %d", count.Count)
	}
}

func TestValidationErrorsCarryFieldDetails(t *testing.T) {
	h := setupAPI(t)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "Sara",
		"email":   "not-an-email",
		"subject": "Hi",
		"message": "Long enough message body.",
	}, http.StatusBadRequest), &resp)
	if resp.Error == nil || resp.Error.Code != CodeValidation {
		t.Fatalf("expected %s, got %+v", CodeValidation, resp.Error)
	}
	fields, _ := resp.Error.Details["fields"].(map[string]any)
	if _, ok := fields["email"]; !ok {
		t.Fatalf("expected email field error, got %v", resp.Error.Details)
	}
}

func TestNotFoundAndBadIDs(t *testing.T) {
	h := setupAPI(t)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/posts/"+uuid.NewString(), nil, http.StatusNotFound), &resp)
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", resp.Error)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/posts/not-a-uuid", nil, http.StatusBadRequest), &resp)
	if resp.Error == nil || resp.Error.Code != CodeBadRequest {
		t.Fatalf("expected BAD_REQUEST, got %+v", resp.Error)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/posts?from=yesterday", nil, http.StatusBadRequest), &resp)
	if resp.Success {
		t.Fatalf("expected invalid date to fail")
	}
}

func TestUserEmailConflictAndActivityTrail(t *testing.T) {
	h := setupAPI(t)

	body := map[string]any{"name": "Layla Hassan", "email": "layla@example.com", "role": "editor"}
	h.do(t, http.MethodPost, "/admin/api/users", body, http.StatusCreated)

	var conflict envelope
	decodeJSONBody(t, h.do(t, http.MethodPost, "/admin/api/users", body, http.StatusConflict), &conflict)
	if conflict.Error == nil || conflict.Error.Code != CodeConflict {
		t.Fatalf("expected CONFLICT, got %+v", conflict.Error)
	}

	var log envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/activity?resource=user", nil, http.StatusOK), &log)
	if log.Pagination == nil || log.Pagination.Total != 1 {
		t.Fatalf("expected one user activity entry, got %+v", log.Pagination)
	}
	var entries []*activity.Entry
	if err := json.Unmarshal(log.Data, &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if entries[0].ActorID != h.actor {
		t.Fatalf("expected actor %s, got %s", h.actor, entries[0].ActorID)
	}

	rec := h.do(t, http.MethodGet, "/admin/api/activity/export?format=csv", nil, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected csv export, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "layla") && !strings.Contains(rec.Body.String(), "user") {
		t.Fatalf("export missing entry: %s", rec.Body.String())
	}

	h.do(t, http.MethodGet, "/admin/api/activity/export?format=xml", nil, http.StatusBadRequest)
}

func TestContentBulkAndPublicRead(t *testing.T) {
	h := setupAPI(t)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodPost, "/admin/api/content/bulk", map[string]any{
		"contents": []map[string]any{
			{"key": "hero.home", "data": map[string]any{"headline": map[string]any{"en": "Hello", "ar": "مرحبا"}}},
			{"key": "menu.main", "data": map[string]any{"items": []any{
				map[string]any{"label": map[string]any{"en": "Blog"}, "url": "/blog"},
			}}},
		},
	}, http.StatusOK), &resp)
	var upserted upsertResponse
	if err := json.Unmarshal(resp.Data, &upserted); err != nil {
		t.Fatalf("decode upserted: %v", err)
	}
	if upserted.Upserted != 2 {
		t.Fatalf("expected 2 upserted, got %d", upserted.Upserted)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/api/content/hero.home", nil, http.StatusOK), &resp)
	var entry content.Entry
	if err := json.Unmarshal(resp.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Key != "hero.home" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	decodeJSONBody(t, h.do(t, http.MethodPost, "/admin/api/content/bulk", map[string]any{
		"contents": []map[string]any{
			{"key": "menu.footer", "data": map[string]any{"links": true}},
		},
	}, http.StatusBadRequest), &resp)
	if resp.Error == nil || resp.Error.Code != CodeValidation {
		t.Fatalf("expected schema failure, got %+v", resp.Error)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/content?prefix=menu.", nil, http.StatusOK), &resp)
	var menus []*content.Entry
	if err := json.Unmarshal(resp.Data, &menus); err != nil {
		t.Fatalf("decode menus: %v", err)
	}
	if len(menus) != 1 || menus[0].Key != "menu.main" {
		t.Fatalf("expected only menu.main, got %d entries", len(menus))
	}
}

func TestNotificationSettingsRoundTrip(t *testing.T) {
	h := setupAPI(t)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/notifications/settings", nil, http.StatusOK), &resp)
	var settings notifications.Settings
	if err := json.Unmarshal(resp.Data, &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings != notifications.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	decodeJSONBody(t, h.do(t, http.MethodPut, "/admin/api/notifications/settings", map[string]any{
		"push": map[string]any{"newMessages": false, "securityAlerts": true},
	}, http.StatusOK), &resp)

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/notifications/settings", nil, http.StatusOK), &resp)
	if err := json.Unmarshal(resp.Data, &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.Push.NewMessages {
		t.Fatalf("expected push.newMessages off")
	}
	if settings.Email != notifications.DefaultSettings().Email {
		t.Fatalf("expected email defaults kept, got %+v", settings.Email)
	}

	anonymous := doJSONRequest(t, h.handler, http.MethodGet, "/admin/api/notifications/settings", nil, http.StatusBadRequest, uuid.Nil)
	decodeJSONBody(t, anonymous, &resp)
	if resp.Success {
		t.Fatalf("expected anonymous settings read to fail")
	}
}

func TestTranslationsBulkAndBundle(t *testing.T) {
	h := setupAPI(t)

	h.do(t, http.MethodPost, "/admin/api/translations/bulk", map[string]any{
		"translations": []map[string]any{
			{"namespace": "nav", "key": "home", "value": map[string]any{"en": "Home", "ar": "الرئيسية"}},
			{"namespace": "nav", "key": "blog", "value": map[string]any{"en": "Blog"}},
		},
	}, http.StatusOK)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/api/translations/ar", nil, http.StatusOK), &resp)
	bundle := map[string]string{}
	if err := json.Unmarshal(resp.Data, &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if bundle["nav.home"] != "الرئيسية" || bundle["nav.blog"] != "Blog" {
		t.Fatalf("unexpected bundle %v", bundle)
	}

	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/translations?status=missing", nil, http.StatusOK), &resp)
	if resp.Pagination == nil || resp.Pagination.Total != 1 {
		t.Fatalf("expected one incomplete translation, got %+v", resp.Pagination)
	}
}

func TestPublicPostRenderingAndSitemap(t *testing.T) {
	h := setupAPI(t)

	h.do(t, http.MethodPost, "/admin/api/posts", map[string]any{
		"title":   map[string]any{"en": "Launch Day", "ar": "يوم الإطلاق"},
		"content": map[string]any{"en": "# Launch\n\nWe are live.", "ar": "# إطلاق\n\nنحن هنا."},
		"author":  "Editorial Team",
		"status":  "published",
	}, http.StatusCreated)
	h.do(t, http.MethodPost, "/admin/api/posts", map[string]any{
		"title":   map[string]any{"en": "Hidden Draft"},
		"content": map[string]any{"en": "Draft body"},
		"author":  "Editorial Team",
		"status":  "draft",
	}, http.StatusCreated)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/api/posts/launch-day?locale=ar", nil, http.StatusOK), &resp)
	var rendered posts.Rendered
	if err := json.Unmarshal(resp.Data, &rendered); err != nil {
		t.Fatalf("decode rendered: %v", err)
	}
	if rendered.Dir != "rtl" || !strings.Contains(rendered.HTML, "<h1") {
		t.Fatalf("unexpected rendering %+v", rendered)
	}
	if rendered.URL != "https://example.com/ar/blog/launch-day" {
		t.Fatalf("unexpected url %q", rendered.URL)
	}

	h.do(t, http.MethodGet, "/api/posts/hidden-draft", nil, http.StatusNotFound)

	decodeJSONBody(t, h.do(t, http.MethodGet, "/api/posts", nil, http.StatusOK), &resp)
	if resp.Pagination == nil || resp.Pagination.Total != 1 {
		t.Fatalf("expected one published post, got %+v", resp.Pagination)
	}

	rec := h.do(t, http.MethodGet, "/sitemap.xml", nil, http.StatusOK)
	doc := rec.Body.String()
	if !strings.Contains(doc, "https://example.com/en/blog/launch-day") {
		t.Fatalf("sitemap missing post:\n%s", doc)
	}
	if strings.Contains(doc, "hidden-draft") {
		t.Fatalf("sitemap must not list drafts")
	}
}

func TestDashboardSummary(t *testing.T) {
	h := setupAPI(t)

	h.do(t, http.MethodPost, "/api/newsletter/subscribe", map[string]any{"email": "reader@example.com"}, http.StatusOK)

	var resp envelope
	decodeJSONBody(t, h.do(t, http.MethodGet, "/admin/api/dashboard", nil, http.StatusOK), &resp)
	var summary dashboard.Summary
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Subscribers != 1 {
		t.Fatalf("expected 1 subscriber, got %d", summary.Subscribers)
	}
}

func TestUnavailableServices(t *testing.T) {
	mux := http.NewServeMux()
	if err := NewAdminAPI().Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	var resp envelope
	decodeJSONBody(t, doJSONRequest(t, mux, http.MethodGet, "/admin/api/posts", nil, http.StatusServiceUnavailable, uuid.Nil), &resp)
	if resp.Error == nil || resp.Error.Code != CodeUnavailable {
		t.Fatalf("expected %s, got %+v", CodeUnavailable, resp.Error)
	}
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body any, wantStatus int, actor uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != uuid.Nil {
		req.Header.Set(HeaderActorID, actor.String())
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
