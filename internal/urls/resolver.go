// Package urls builds public, locale-prefixed site URLs with go-urlkit.
package urls

import (
	"errors"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Route names understood by the resolver.
const (
	RouteHome     = "home"
	RouteBlog     = "blog"
	RoutePost     = "post"
	RouteCareers  = "careers"
	RouteJob      = "job"
	RouteProjects = "projects"
	RouteProject  = "project"
	RouteServices = "services"
	RouteService  = "service"
	RouteContact  = "contact"
)

// SiteGroup is the root route group name.
const SiteGroup = "site"

// ErrRouteUnknown is returned for unregistered groups or routes.
var ErrRouteUnknown = errors.New("urls: unknown route")

// DefaultPaths maps each route to its path template.
func DefaultPaths() map[string]string {
	return map[string]string{
		RouteHome:     "/",
		RouteBlog:     "/blog",
		RoutePost:     "/blog/:slug",
		RouteCareers:  "/careers",
		RouteJob:      "/careers/:slug",
		RouteProjects: "/projects",
		RouteProject:  "/projects/:slug",
		RouteServices: "/services",
		RouteService:  "/services/:slug",
		RouteContact:  "/contact",
	}
}

// DefaultConfig returns a route configuration with one child group per
// supported locale, each prefixed by the locale code.
func DefaultConfig(baseURL string) *urlkit.Config {
	children := make([]urlkit.GroupConfig, 0, len(shared.SupportedLocales))
	for _, locale := range shared.SupportedLocales {
		children = append(children, urlkit.GroupConfig{
			Name:  string(locale),
			Path:  "/" + string(locale),
			Paths: DefaultPaths(),
		})
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    SiteGroup,
			BaseURL: strings.TrimRight(baseURL, "/"),
			Paths:   DefaultPaths(),
			Groups:  children,
		}},
	}
}

// Resolver resolves route names to absolute URLs.
type Resolver struct {
	manager *urlkit.RouteManager
}

// NewResolver wraps cfg; a nil cfg uses DefaultConfig with an empty base URL.
func NewResolver(cfg *urlkit.Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	return &Resolver{manager: urlkit.NewRouteManager(cfg)}
}

// URL builds the URL of route for locale. slug is applied when non-empty.
func (r *Resolver) URL(locale shared.Locale, route, slug string) (string, error) {
	builder, err := r.builder(locale, route)
	if err != nil {
		return "", err
	}
	if slug != "" {
		builder.WithParam("slug", slug)
	}
	out, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("urls: build %s/%s: %w", locale, route, err)
	}
	return out, nil
}

// Alternates returns the URL of route in every supported locale.
func (r *Resolver) Alternates(route, slug string) (map[shared.Locale]string, error) {
	out := make(map[shared.Locale]string, len(shared.SupportedLocales))
	for _, locale := range shared.SupportedLocales {
		url, err := r.URL(locale, route, slug)
		if err != nil {
			return nil, err
		}
		out[locale] = url
	}
	return out, nil
}

// builder recovers from go-urlkit panics on unknown groups or routes.
func (r *Resolver) builder(locale shared.Locale, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("%w: %s/%s", ErrRouteUnknown, locale, route)
		}
	}()
	if r == nil || r.manager == nil {
		return nil, fmt.Errorf("%w: resolver not configured", ErrRouteUnknown)
	}
	group := r.manager.Group(SiteGroup)
	if locale.IsSupported() {
		group = group.Group(string(locale))
	}
	return group.Builder(route), nil
}
