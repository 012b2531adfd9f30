package client_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/pkg/client"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

func newSiteServer(t *testing.T) *client.Client {
	t.Helper()
	cfg := sitecms.DefaultConfig()
	cfg.Logging.Level = "error"
	module, err := sitecms.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()), client.WithActor(uuid.New(), "Editor"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func submitMessages(t *testing.T, c *client.Client, n int) {
	t.Helper()
	for i := range n {
		_, err := c.Public().Contact(context.Background(), client.ContactRequest{
			Name:    fmt.Sprintf("Visitor %d", i),
			Email:   fmt.Sprintf("visitor%d@example.com", i),
			Subject: "Project enquiry",
			Body:    "We would like to talk about a new website.",
		})
		if err != nil {
			t.Fatalf("contact %d: %v", i, err)
		}
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := client.New("  "); err != client.ErrBaseURLRequired {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestGetDropsBlankParams(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	params := client.ListParams{Page: 2, Search: "", Status: shared.FilterAll, Type: "editor"}
	if _, err := c.Users().List(context.Background(), params); err != nil {
		t.Fatalf("list: %v", err)
	}
	if query != "page=2&type=editor" {
		t.Fatalf("expected blank filters to be dropped, got %q", query)
	}
}

func TestFailedEnvelopeBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"CONFLICT","message":"email already exists"}}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Users().Create(context.Background(), client.CreateUserRequest{Name: "Sara", Email: "sara@example.com"})
	apiErr, ok := err.(*client.Error)
	if !ok {
		t.Fatalf("expected *client.Error, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "CONFLICT" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestPlainTextErrorBody(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Messages().Stats(context.Background())
	if !client.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientAgainstSiteServer(t *testing.T) {
	c := newSiteServer(t)
	ctx := context.Background()
	submitMessages(t, c, 3)

	page, err := c.Messages().List(ctx, client.ListParams{Status: "unread", Limit: 2})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(page.Items) != 2 || page.Pagination.Total != 3 || page.Pagination.Pages != 2 {
		t.Fatalf("unexpected page %+v", page.Pagination)
	}

	reply, err := c.Messages().Reply(ctx, page.Items[0].ID, "Thanks, we will call you.")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Status != "replied" {
		t.Fatalf("expected replied status, got %q", reply.Status)
	}

	stats, err := c.Messages().Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected three messages, got %+v", stats)
	}

	_, err = c.Public().Contact(ctx, client.ContactRequest{Name: "X"})
	if !client.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewsletterRoundTrip(t *testing.T) {
	c := newSiteServer(t)
	ctx := context.Background()

	if _, err := c.Public().Subscribe(ctx, client.SubscribeRequest{Email: "fan@example.com", Locale: "ar"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	count, err := c.Newsletter().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one subscriber, got %d", count)
	}

	var buf bytes.Buffer
	if _, err := c.Newsletter().Export(ctx, client.ListParams{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "fan@example.com") {
		t.Fatalf("expected subscriber in export, got %q", buf.String())
	}
}

func TestContentAndTranslations(t *testing.T) {
	c := newSiteServer(t)
	ctx := context.Background()

	written, err := c.Content().BulkUpsert(ctx, []client.ContentInput{
		{Key: "home.hero", Data: map[string]any{"title": map[string]any{"ar": "مرحبا", "en": "Hello"}}},
	})
	if err != nil {
		t.Fatalf("bulk content: %v", err)
	}
	if written != 1 {
		t.Fatalf("expected one entry, got %d", written)
	}
	entry, err := c.Public().Content(ctx, "home.hero")
	if err != nil {
		t.Fatalf("public content: %v", err)
	}
	if entry.Key != "home.hero" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	if _, err := c.Translations().Upsert(ctx, client.TranslationInput{
		Namespace: "nav",
		Key:       "home",
		Value:     shared.BilingualText{Ar: "الرئيسية", En: "Home"},
	}); err != nil {
		t.Fatalf("upsert translation: %v", err)
	}
	bundle, err := c.Public().Translations(ctx, shared.LocaleAr)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if bundle["nav.home"] != "الرئيسية" {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
}

func TestNotificationSettingsDefaultsAndSave(t *testing.T) {
	c := newSiteServer(t)
	ctx := context.Background()

	settings, err := c.NotificationSettings().Get(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !settings.Email.SecurityAlerts || settings.Email.Marketing {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	settings.Email.Marketing = true
	if _, err := c.NotificationSettings().Save(ctx, settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	saved, err := c.NotificationSettings().Get(ctx)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if !saved.Email.Marketing {
		t.Fatalf("expected saved preference, got %+v", saved)
	}

	if err := c.NotificationSettings().Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	reset, err := c.NotificationSettings().Get(ctx)
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if reset.Email.Marketing {
		t.Fatalf("expected defaults after reset, got %+v", reset)
	}
}

func TestPathSegmentsAreEscapedOnce(t *testing.T) {
	var escaped, decoded []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped = append(escaped, r.URL.EscapedPath())
		decoded = append(decoded, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL + "/cms/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Content().Get(ctx, "hero title"); err != nil {
		t.Fatalf("content get: %v", err)
	}
	if _, err := c.Translations().Lookup(ctx, "nav", "a/b"); err != nil {
		t.Fatalf("translation lookup: %v", err)
	}

	wantEscaped := []string{"/cms/admin/api/content/hero%20title", "/cms/admin/api/translations/nav/a%2Fb"}
	wantDecoded := []string{"/cms/admin/api/content/hero title", "/cms/admin/api/translations/nav/a/b"}
	for i := range wantEscaped {
		if escaped[i] != wantEscaped[i] || decoded[i] != wantDecoded[i] {
			t.Fatalf("request %d: got %q (%q), want %q (%q)", i, escaped[i], decoded[i], wantEscaped[i], wantDecoded[i])
		}
	}
}
