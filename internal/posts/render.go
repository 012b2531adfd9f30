package posts

import (
	"context"

	"github.com/goliatone/go-sitecms/internal/urls"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Render resolves post for locale and converts its markdown body to
// sanitised HTML. Empty locale fields fall back to the default locale.
func (s *service) Render(_ context.Context, post *Post, locale shared.Locale) (*Rendered, error) {
	if post == nil {
		return nil, ErrPostIDRequired
	}
	if s.renderer == nil {
		return nil, ErrRendererMissing
	}
	locale = shared.ParseLocale(string(locale))

	html, err := s.renderer.Render(s.localizer.Text(post.Content, locale))
	if err != nil {
		return nil, err
	}

	out := &Rendered{
		ID:          post.ID,
		Slug:        post.Slug,
		Locale:      locale,
		Dir:         locale.Direction(),
		Title:       s.localizer.Text(post.Title, locale),
		Excerpt:     s.localizer.Text(post.Excerpt, locale),
		HTML:        html,
		Author:      post.Author,
		Category:    post.Category,
		Tags:        append([]string(nil), post.Tags...),
		CoverImage:  post.CoverImage,
		ReadingTime: post.ReadingTime.Get(locale),
		PublishedAt: post.PublishedAt,
		Views:       post.Views,
	}
	if out.ReadingTime == 0 {
		out.ReadingTime = post.ReadingTime.Get(s.localizer.Default)
	}
	if out.Excerpt == "" {
		if plain, err := s.renderer.PlainText(s.localizer.Text(post.Content, locale)); err == nil {
			out.Excerpt = shared.TruncateText(plain, excerptLength)
		}
	}

	if s.urls != nil {
		if url, err := s.urls.URL(locale, urls.RoutePost, post.Slug); err == nil {
			out.URL = url
		}
		if alternates, err := s.urls.Alternates(urls.RoutePost, post.Slug); err == nil {
			out.Alternates = alternates
		}
	}
	return out, nil
}

const excerptLength = 160
