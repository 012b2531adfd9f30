package client

import (
	"time"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Wire types shared with the server.
type (
	Message              = messages.Message
	MessageStats         = messages.Stats
	ContactRequest       = messages.SubmitRequest
	User                 = users.User
	CreateUserRequest    = users.CreateRequest
	Notification         = notifications.Notification
	CreateNotification   = notifications.CreateRequest
	NotificationSettings = notifications.Settings
	ActivityEntry        = activity.Entry
	Translation          = translations.Item
	TranslationInput     = translations.ItemInput
	MissingReport        = translations.MissingReport
	ContentEntry         = content.Entry
	ContentInput         = content.EntryInput
	Post                 = posts.Post
	PostInput            = posts.CreatePostRequest
	PostUpdate           = posts.UpdatePostRequest
	RenderedPost         = posts.Rendered
	Job                  = careers.Job
	JobInput             = careers.JobInput
	Subscriber           = newsletter.Subscriber
	SubscribeRequest     = newsletter.SubscribeRequest
	DashboardSummary     = dashboard.Summary
)

// ListParams are the filters every admin list endpoint accepts. Zero values
// are omitted from the request.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
	Type   string
	From   *time.Time
	To     *time.Time
	Sort   string
	// Extra carries resource specific filters such as namespace or kind.
	Extra shared.Record
}

// Record shapes the params as query values. The "all" sentinel on status
// and type means no filter.
func (p ListParams) Record() shared.Record {
	record := shared.R(
		"page", positive(p.Page),
		"limit", positive(p.Limit),
		"search", p.Search,
		"status", filterValue(p.Status),
		"type", filterValue(p.Type),
		"from", p.From,
		"to", p.To,
		"sort", p.Sort,
	)
	for _, field := range p.Extra {
		record = record.Set(field.Key, field.Value)
	}
	return record
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Pagination shared.PageMeta
}

type modifiedResult struct {
	Modified int `json:"modified"`
}

type countResult struct {
	Count int `json:"count"`
}

type upsertResult struct {
	Upserted int `json:"upserted"`
}

func positive(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}

func filterValue(value string) any {
	if value == shared.FilterAll {
		return nil
	}
	return value
}
