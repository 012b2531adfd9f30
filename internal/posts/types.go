package posts

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Post is a bilingual blog article.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	Slug        string               `bun:"slug,notnull,unique" json:"slug"`
	Title       shared.BilingualText `bun:"embed:title_" json:"title"`
	Excerpt     shared.BilingualText `bun:"embed:excerpt_" json:"excerpt"`
	Content     shared.BilingualText `bun:"embed:content_" json:"content"`
	Author      Author               `bun:"embed:author_" json:"author"`
	Category    Category             `bun:"embed:category_" json:"category"`
	Tags        []string             `bun:"tags,type:jsonb" json:"tags"`
	CoverImage  string               `bun:"cover_image" json:"coverImage,omitempty"`
	Status      domain.Status        `bun:"status,notnull" json:"status"`
	Featured    bool                 `bun:"featured,notnull,default:false" json:"featured"`
	ReadingTime ReadingTime          `bun:"embed:reading_time_" json:"readingTime"`
	PublishedAt *time.Time           `bun:"published_at,nullzero" json:"publishedAt,omitempty"`
	Views       int                  `bun:"views,notnull,default:0" json:"views"`
	CreatedBy   uuid.UUID            `bun:"created_by,type:uuid" json:"createdBy"`
	UpdatedBy   uuid.UUID            `bun:"updated_by,type:uuid" json:"updatedBy"`
	CreatedAt   time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (p *Post) GetID() uuid.UUID   { return p.ID }
func (p *Post) SetID(id uuid.UUID) { p.ID = id }

// Clone returns a deep copy.
func (p *Post) Clone() *Post {
	cloned := *p
	cloned.Tags = append([]string(nil), p.Tags...)
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		cloned.PublishedAt = &at
	}
	return &cloned
}

// IsPublished reports whether the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == domain.StatusPublished
}

// ReadingTime holds the estimated minutes per locale.
type ReadingTime struct {
	Ar int `bun:"ar" json:"ar"`
	En int `bun:"en" json:"en"`
}

// Get returns the minutes for locale.
func (r ReadingTime) Get(locale shared.Locale) int {
	if locale == shared.LocaleAr {
		return r.Ar
	}
	return r.En
}

// Author is always stored in object form. JSON input may be a bare name.
type Author struct {
	Name   string `bun:"name" json:"name"`
	Avatar string `bun:"avatar" json:"avatar,omitempty"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*a = Author{Name: strings.TrimSpace(name)}
		return nil
	}
	type plain Author
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = Author(decoded).normalized()
	return nil
}

func (a Author) normalized() Author {
	return Author{Name: strings.TrimSpace(a.Name), Avatar: strings.TrimSpace(a.Avatar)}
}

// Category is always stored in object form. JSON input may be a bare name,
// in which case the slug is derived from it.
type Category struct {
	Name string `bun:"name" json:"name"`
	Slug string `bun:"slug" json:"slug"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Category{Name: name}.normalized()
		return nil
	}
	type plain Category
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Category(decoded).normalized()
	return nil
}

func (c Category) normalized() Category {
	name := strings.TrimSpace(c.Name)
	slug := shared.GenerateSlug(c.Slug)
	if slug == "" {
		slug = shared.GenerateSlug(name)
	}
	return Category{Name: name, Slug: slug}
}

func isJSONString(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// CreatePostRequest carries the fields of a new post.
type CreatePostRequest struct {
	Slug        string               `json:"slug"`
	Title       shared.BilingualText `json:"title"`
	Excerpt     shared.BilingualText `json:"excerpt"`
	Content     shared.BilingualText `json:"content"`
	Author      Author               `json:"author"`
	Category    Category             `json:"category"`
	Tags        []string             `json:"tags"`
	CoverImage  string               `json:"coverImage"`
	Status      string               `json:"status"`
	Featured    bool                 `json:"featured"`
	PublishedAt *time.Time           `json:"publishedAt"`
	ActorID     uuid.UUID            `json:"-"`
}

// UpdatePostRequest patches a post; nil fields are left untouched.
type UpdatePostRequest struct {
	ID          uuid.UUID             `json:"-"`
	Slug        *string               `json:"slug"`
	Title       *shared.BilingualText `json:"title"`
	Excerpt     *shared.BilingualText `json:"excerpt"`
	Content     *shared.BilingualText `json:"content"`
	Author      *Author               `json:"author"`
	Category    *Category             `json:"category"`
	Tags        *[]string             `json:"tags"`
	CoverImage  *string               `json:"coverImage"`
	Status      *string               `json:"status"`
	Featured    *bool                 `json:"featured"`
	PublishedAt *time.Time            `json:"publishedAt"`
	ActorID     uuid.UUID             `json:"-"`
}

// Rendered is a post resolved for one locale, ready for the public site.
type Rendered struct {
	ID          uuid.UUID                `json:"id"`
	Slug        string                   `json:"slug"`
	Locale      shared.Locale            `json:"locale"`
	Dir         string                   `json:"dir"`
	Title       string                   `json:"title"`
	Excerpt     string                   `json:"excerpt"`
	HTML        string                   `json:"html"`
	Author      Author                   `json:"author"`
	Category    Category                 `json:"category"`
	Tags        []string                 `json:"tags"`
	CoverImage  string                   `json:"coverImage,omitempty"`
	ReadingTime int                      `json:"readingTime"`
	PublishedAt *time.Time               `json:"publishedAt,omitempty"`
	Views       int                      `json:"views"`
	URL         string                   `json:"url,omitempty"`
	Alternates  map[shared.Locale]string `json:"alternates,omitempty"`
}

// ImportOptions controls ImportMarkdown.
type ImportOptions struct {
	// Publish marks imported posts published unless their front matter says
	// draft.
	Publish bool
	// Overwrite updates posts whose slug already exists instead of skipping
	// them.
	Overwrite bool
	// DefaultAuthor is used for documents without an author.
	DefaultAuthor string
	ActorID       uuid.UUID
}

// ImportResult summarises an import run.
type ImportResult struct {
	Created []string          `json:"created"`
	Updated []string          `json:"updated"`
	Skipped []string          `json:"skipped"`
	Errors  map[string]string `json:"errors,omitempty"`
}
