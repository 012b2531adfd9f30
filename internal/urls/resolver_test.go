package urls

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

func TestResolverBuildsLocalizedURLs(t *testing.T) {
	resolver := NewResolver(DefaultConfig("https://example.com/"))

	got, err := resolver.URL(shared.LocaleAr, RoutePost, "hello-world")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if got != "https://example.com/ar/blog/hello-world" {
		t.Fatalf("unexpected url %q", got)
	}

	alternates, err := resolver.Alternates(RouteJob, "backend-engineer")
	if err != nil {
		t.Fatalf("Alternates: %v", err)
	}
	if alternates[shared.LocaleEn] != "https://example.com/en/careers/backend-engineer" {
		t.Fatalf("unexpected alternates %v", alternates)
	}
}

func TestResolverUnknownRoute(t *testing.T) {
	resolver := NewResolver(DefaultConfig("https://example.com"))
	if _, err := resolver.URL(shared.LocaleEn, "missing", ""); err == nil {
		t.Fatalf("expected error for unknown route")
	}
	var nilResolver *Resolver
	if _, err := nilResolver.URL(shared.LocaleEn, RouteHome, ""); !errors.Is(err, ErrRouteUnknown) {
		t.Fatalf("expected ErrRouteUnknown, got %v", err)
	}
}

func TestSitemapListsEveryLocale(t *testing.T) {
	resolver := NewResolver(DefaultConfig("https://example.com"))
	body, err := resolver.Sitemap([]SitemapEntry{
		{Route: RoutePost, Slug: "launch", Modified: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	doc := string(body)
	for _, want := range []string{
		"<loc>https://example.com/en/blog/launch</loc>",
		"<loc>https://example.com/ar/blog/launch</loc>",
		"<lastmod>2025-04-02</lastmod>",
		`hreflang="ar"`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("sitemap missing %q:\n%s", want, doc)
		}
	}
}
