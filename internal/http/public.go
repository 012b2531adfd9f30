package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/urls"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// DefaultPublicBasePath is where the public site API mounts unless
// overridden.
const DefaultPublicBasePath = "/api"

// PublicAPI registers the read-mostly endpoints consumed by the public site.
type PublicAPI struct {
	basePath     string
	posts        posts.Service
	careers      careers.Service
	portfolio    portfolio.Service
	messages     messages.Service
	newsletter   newsletter.Service
	translations translations.Service
	content      content.Service
	urls         *urls.Resolver
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

// NewPublicAPI constructs a PublicAPI instance.
func NewPublicAPI(opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{basePath: DefaultPublicBasePath}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

func WithPublicBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithPublicServices wires every service the public API reads from. Nil
// services disable their routes' handlers with 503.
func WithPublicServices(
	postSvc posts.Service,
	careerSvc careers.Service,
	portfolioSvc portfolio.Service,
	messageSvc messages.Service,
	newsletterSvc newsletter.Service,
	translationSvc translations.Service,
	contentSvc content.Service,
) PublicOption {
	return func(api *PublicAPI) {
		api.posts = postSvc
		api.careers = careerSvc
		api.portfolio = portfolioSvc
		api.messages = messageSvc
		api.newsletter = newsletterSvc
		api.translations = translationSvc
		api.content = contentSvc
	}
}

// WithURLResolver enables sitemap.xml.
func WithURLResolver(resolver *urls.Resolver) PublicOption {
	return func(api *PublicAPI) {
		api.urls = resolver
	}
}

// Register attaches the public endpoints and /sitemap.xml to mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: public api is nil")
	}
	base := joinPath(api.basePath, "")

	mux.HandleFunc("GET "+joinPath(base, "posts"), api.handlePosts)
	mux.HandleFunc("GET "+joinPath(base, "posts")+"/{slug}", api.handlePost)
	mux.HandleFunc("GET "+joinPath(base, "jobs"), api.handleJobs)
	mux.HandleFunc("GET "+joinPath(base, "jobs")+"/{slug}", api.handleJob)
	mux.HandleFunc("GET "+joinPath(base, "projects"), api.handlePortfolio(domain.KindProject))
	mux.HandleFunc("GET "+joinPath(base, "projects")+"/{slug}", api.handlePortfolioItem(domain.KindProject))
	mux.HandleFunc("GET "+joinPath(base, "services"), api.handlePortfolio(domain.KindService))
	mux.HandleFunc("GET "+joinPath(base, "services")+"/{slug}", api.handlePortfolioItem(domain.KindService))
	mux.HandleFunc("POST "+joinPath(base, "contact"), api.handleContact)
	mux.HandleFunc("POST "+joinPath(base, "newsletter/subscribe"), api.handleSubscribe)
	mux.HandleFunc("POST "+joinPath(base, "newsletter/unsubscribe"), api.handleUnsubscribe)
	mux.HandleFunc("GET "+joinPath(base, "translations")+"/{locale}", api.handleBundle)
	mux.HandleFunc("GET "+joinPath(base, "content")+"/{key}", api.handleContent)
	mux.HandleFunc("GET /sitemap.xml", api.handleSitemap)
	return nil
}

func requestLocale(r *http.Request) shared.Locale {
	if raw := r.URL.Query().Get("locale"); raw != "" {
		return shared.ParseLocale(raw)
	}
	header := r.Header.Get("Accept-Language")
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, "-")
	return shared.ParseLocale(first)
}

func (api *PublicAPI) handlePosts(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	q, err := listQuery(r, posts.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.posts.ListPublished(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	locale := requestLocale(r)
	rendered := make([]*posts.Rendered, 0, len(result.Items))
	for _, post := range result.Items {
		out, err := api.posts.Render(r.Context(), post, locale)
		if err != nil {
			writeError(w, err)
			return
		}
		out.HTML = ""
		rendered = append(rendered, out)
	}
	writePage(w, listing.Result[*posts.Rendered]{Items: rendered, Pagination: result.Pagination})
}

// handlePost renders one published post and counts the view.
func (api *PublicAPI) handlePost(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeUnavailable(w, "post")
		return
	}
	post, err := api.posts.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	rendered, err := api.posts.Render(r.Context(), post, requestLocale(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, rendered)
}

func (api *PublicAPI) handleJobs(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	q, err := listQuery(r, careers.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.careers.ListOpen(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *PublicAPI) handleJob(w http.ResponseWriter, r *http.Request) {
	if api.careers == nil {
		writeUnavailable(w, "career")
		return
	}
	job, err := api.careers.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, job)
}

func (api *PublicAPI) handlePortfolio(kind domain.PortfolioKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.portfolio == nil {
			writeUnavailable(w, "portfolio")
			return
		}
		q, err := listQuery(r, portfolio.ListSpec())
		if err != nil {
			writeError(w, err)
			return
		}
		result, err := api.portfolio.Published(r.Context(), kind, q)
		if err != nil {
			writeError(w, err)
			return
		}
		writePage(w, result)
	}
}

func (api *PublicAPI) handlePortfolioItem(kind domain.PortfolioKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.portfolio == nil {
			writeUnavailable(w, "portfolio")
			return
		}
		item, err := api.portfolio.GetPublished(r.Context(), kind, r.PathValue("slug"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, http.StatusOK, item)
	}
}

func (api *PublicAPI) handleContact(w http.ResponseWriter, r *http.Request) {
	if api.messages == nil {
		writeUnavailable(w, "message")
		return
	}
	var req messages.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.IP = clientIP(r)
	if req.Locale == "" {
		req.Locale = string(requestLocale(r))
	}
	msg, err := api.messages.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := shared.OK(map[string]any{"id": msg.ID})
	resp.Message = "message received"
	writeJSON(w, http.StatusCreated, resp)
}

func (api *PublicAPI) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if api.newsletter == nil {
		writeUnavailable(w, "newsletter")
		return
	}
	var req newsletter.SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Locale == "" {
		req.Locale = string(requestLocale(r))
	}
	subscriber, err := api.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, subscriber)
}

func (api *PublicAPI) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
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

func (api *PublicAPI) handleBundle(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	bundle, err := api.translations.Bundle(r.Context(), shared.ParseLocale(r.PathValue("locale")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, bundle)
}

func (api *PublicAPI) handleContent(w http.ResponseWriter, r *http.Request) {
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

func (api *PublicAPI) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if api.urls == nil {
		writeUnavailable(w, "sitemap")
		return
	}
	entries, err := api.sitemapEntries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	document, err := api.urls.Sitemap(entries)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}

func (api *PublicAPI) sitemapEntries(ctx context.Context) ([]urls.SitemapEntry, error) {
	entries := []urls.SitemapEntry{
		{Route: urls.RouteHome},
		{Route: urls.RouteBlog},
		{Route: urls.RouteCareers},
		{Route: urls.RouteProjects},
		{Route: urls.RouteServices},
		{Route: urls.RouteContact},
	}
	if api.posts != nil {
		err := eachPage(ctx, api.posts.ListPublished, func(post *posts.Post) {
			entries = append(entries, urls.SitemapEntry{Route: urls.RoutePost, Slug: post.Slug, Modified: post.UpdatedAt})
		})
		if err != nil {
			return nil, err
		}
	}
	if api.careers != nil {
		err := eachPage(ctx, api.careers.ListOpen, func(job *careers.Job) {
			entries = append(entries, urls.SitemapEntry{Route: urls.RouteJob, Slug: job.Slug, Modified: job.UpdatedAt})
		})
		if err != nil {
			return nil, err
		}
	}
	if api.portfolio != nil {
		kinds := map[domain.PortfolioKind]string{
			domain.KindProject: urls.RouteProject,
			domain.KindService: urls.RouteService,
		}
		for _, kind := range []domain.PortfolioKind{domain.KindProject, domain.KindService} {
			list := func(ctx context.Context, q listing.Query) (listing.Result[*portfolio.Item], error) {
				return api.portfolio.Published(ctx, kind, q)
			}
			err := eachPage(ctx, list, func(item *portfolio.Item) {
				entries = append(entries, urls.SitemapEntry{Route: kinds[kind], Slug: item.Slug, Modified: item.UpdatedAt})
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

// eachPage walks every page of list at the maximum page size.
func eachPage[T any](ctx context.Context, list func(context.Context, listing.Query) (listing.Result[T], error), fn func(T)) error {
	q := listing.NewQuery()
	q.Limit = shared.MaxLimit
	for {
		result, err := list(ctx, q)
		if err != nil {
			return err
		}
		for _, item := range result.Items {
			fn(item)
		}
		if !result.Pagination.HasNextPage {
			return nil
		}
		q.Page++
	}
}
