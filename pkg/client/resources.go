package client

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Resource maps one admin REST resource to list, get and bulk calls.
type Resource[T any] struct {
	c    *Client
	name string
}

func newResource[T any](c *Client, name string) Resource[T] {
	return Resource[T]{c: c, name: name}
}

// List fetches one page of the resource.
func (r Resource[T]) List(ctx context.Context, params ListParams) (Page[T], error) {
	var items []T
	resp, err := r.c.Get(ctx, r.c.AdminPath(r.name), params.Record(), &items)
	if err != nil {
		return Page[T]{}, err
	}
	page := Page[T]{Items: items}
	if resp.Pagination != nil {
		page.Pagination = *resp.Pagination
	}
	return page, nil
}

func (r Resource[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var out T
	_, err := r.c.Get(ctx, r.c.AdminPath(r.name, id.String()), nil, &out)
	return out, err
}

// BulkStatus moves every id to status and returns the modified count.
func (r Resource[T]) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	var out modifiedResult
	_, err := r.c.Put(ctx, r.c.AdminPath(r.name, "bulk-status"), map[string]any{"ids": ids, "status": status}, &out)
	return out.Modified, err
}

// BulkDelete removes every id and returns the deleted count.
func (r Resource[T]) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	var out modifiedResult
	_, err := r.c.Post(ctx, r.c.AdminPath(r.name, "bulk-delete"), map[string]any{"ids": ids}, &out)
	return out.Modified, err
}

func (r Resource[T]) remove(ctx context.Context, id string) error {
	_, err := r.c.Delete(ctx, r.c.AdminPath(r.name, id), nil, nil)
	return err
}

type Messages struct {
	Resource[*Message]
}

func (c *Client) Messages() Messages {
	return Messages{newResource[*Message](c, "messages")}
}

func (m Messages) Stats(ctx context.Context) (MessageStats, error) {
	var out MessageStats
	_, err := m.c.Get(ctx, m.c.AdminPath(m.name, "stats"), nil, &out)
	return out, err
}

func (m Messages) Reply(ctx context.Context, id uuid.UUID, reply string) (*Message, error) {
	var out *Message
	_, err := m.c.Post(ctx, m.c.AdminPath(m.name, id.String(), "reply"), map[string]string{"reply": reply}, &out)
	return out, err
}

// Archive is BulkStatus with the archived status.
func (m Messages) Archive(ctx context.Context, ids []uuid.UUID) (int, error) {
	return m.BulkStatus(ctx, ids, "archived")
}

func (m Messages) Delete(ctx context.Context, id uuid.UUID) error {
	return m.remove(ctx, id.String())
}

type Users struct {
	Resource[*User]
}

func (c *Client) Users() Users {
	return Users{newResource[*User](c, "users")}
}

func (u Users) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out *User
	_, err := u.c.Post(ctx, u.c.AdminPath(u.name), req, &out)
	return out, err
}

// Update sends only the updatable fields present in fields.
func (u Users) Update(ctx context.Context, id uuid.UUID, fields shared.Record) (*User, error) {
	var out *User
	payload := shared.Pick(fields, users.UpdatableFields...).Map()
	_, err := u.c.Patch(ctx, u.c.AdminPath(u.name, id.String()), payload, &out)
	return out, err
}

func (u Users) Delete(ctx context.Context, id uuid.UUID) error {
	return u.remove(ctx, id.String())
}

func (u Users) Activate(ctx context.Context, ids []uuid.UUID) (int, error) {
	return u.BulkStatus(ctx, ids, "active")
}

func (u Users) Deactivate(ctx context.Context, ids []uuid.UUID) (int, error) {
	return u.BulkStatus(ctx, ids, "inactive")
}

// RecordLogin stamps the user's last login time.
func (u Users) RecordLogin(ctx context.Context, id uuid.UUID) (*User, error) {
	var out *User
	_, err := u.c.Post(ctx, u.c.AdminPath(u.name, id.String(), "login"), nil, &out)
	return out, err
}

type Notifications struct {
	Resource[*Notification]
}

func (c *Client) Notifications() Notifications {
	return Notifications{newResource[*Notification](c, "notifications")}
}

func (n Notifications) Create(ctx context.Context, req CreateNotification) (*Notification, error) {
	var out *Notification
	_, err := n.c.Post(ctx, n.c.AdminPath(n.name), req, &out)
	return out, err
}

// UnreadCount counts unread notifications of the acting user.
func (n Notifications) UnreadCount(ctx context.Context) (int, error) {
	var out countResult
	_, err := n.c.Get(ctx, n.c.AdminPath(n.name, "unread-count"), nil, &out)
	return out.Count, err
}

func (n Notifications) MarkRead(ctx context.Context, ids []uuid.UUID) (int, error) {
	var out modifiedResult
	_, err := n.c.Put(ctx, n.c.AdminPath(n.name, "read"), map[string]any{"ids": ids}, &out)
	return out.Modified, err
}

func (n Notifications) MarkAllRead(ctx context.Context) (int, error) {
	var out modifiedResult
	_, err := n.c.Put(ctx, n.c.AdminPath(n.name, "read-all"), nil, &out)
	return out.Modified, err
}

// NotificationSettingsAPI reads and writes the acting user's preferences.
type NotificationSettingsAPI struct {
	c *Client
}

func (c *Client) NotificationSettings() NotificationSettingsAPI {
	return NotificationSettingsAPI{c: c}
}

func (s NotificationSettingsAPI) Get(ctx context.Context) (NotificationSettings, error) {
	var out NotificationSettings
	_, err := s.c.Get(ctx, s.c.AdminPath("notifications", "settings"), nil, &out)
	return out, err
}

func (s NotificationSettingsAPI) Save(ctx context.Context, settings NotificationSettings) (NotificationSettings, error) {
	var out NotificationSettings
	_, err := s.c.Put(ctx, s.c.AdminPath("notifications", "settings"), settings, &out)
	return out, err
}

// Reset drops the stored preferences so defaults apply again.
func (s NotificationSettingsAPI) Reset(ctx context.Context) error {
	_, err := s.c.Delete(ctx, s.c.AdminPath("notifications", "settings"), nil, nil)
	return err
}

type Activity struct {
	Resource[*ActivityEntry]
}

func (c *Client) Activity() Activity {
	return Activity{newResource[*ActivityEntry](c, "activity")}
}

func (a Activity) Recent(ctx context.Context, limit int) ([]*ActivityEntry, error) {
	var out []*ActivityEntry
	_, err := a.c.Get(ctx, a.c.AdminPath(a.name, "recent"), shared.R("limit", positive(limit)), &out)
	return out, err
}

// Export streams the filtered log as csv or json into w.
func (a Activity) Export(ctx context.Context, format string, params ListParams, w io.Writer) (int64, error) {
	record := params.Record().Set("format", format)
	return a.c.Download(ctx, a.c.AdminPath(a.name, "export"), record, w)
}

func (a Activity) Purge(ctx context.Context, before time.Time) (int, error) {
	var out modifiedResult
	_, err := a.c.Post(ctx, a.c.AdminPath(a.name, "purge"), map[string]any{"before": before}, &out)
	return out.Modified, err
}

type Translations struct {
	Resource[*Translation]
}

func (c *Client) Translations() Translations {
	return Translations{newResource[*Translation](c, "translations")}
}

func (t Translations) Lookup(ctx context.Context, namespace, key string) (*Translation, error) {
	var out *Translation
	_, err := t.c.Get(ctx, t.c.AdminPath(t.name, namespace, key), nil, &out)
	return out, err
}

func (t Translations) Upsert(ctx context.Context, input TranslationInput) (*Translation, error) {
	var out *Translation
	_, err := t.c.Put(ctx, t.c.AdminPath(t.name), input, &out)
	return out, err
}

func (t Translations) BulkUpsert(ctx context.Context, inputs []TranslationInput) (int, error) {
	var out upsertResult
	_, err := t.c.Post(ctx, t.c.AdminPath(t.name, "bulk"), map[string]any{"translations": inputs}, &out)
	return out.Upserted, err
}

func (t Translations) Missing(ctx context.Context, params ListParams) (MissingReport, error) {
	var out MissingReport
	_, err := t.c.Get(ctx, t.c.AdminPath(t.name, "missing"), params.Record(), &out)
	return out, err
}

func (t Translations) Delete(ctx context.Context, id uuid.UUID) error {
	return t.remove(ctx, id.String())
}

// Content manages keyed site sections.
type Content struct {
	c *Client
}

func (c *Client) Content() Content {
	return Content{c: c}
}

// List returns every entry whose key starts with prefix.
func (ct Content) List(ctx context.Context, prefix string) ([]*ContentEntry, error) {
	var out []*ContentEntry
	_, err := ct.c.Get(ctx, ct.c.AdminPath("content"), shared.R("prefix", prefix), &out)
	return out, err
}

func (ct Content) Get(ctx context.Context, key string) (*ContentEntry, error) {
	var out *ContentEntry
	_, err := ct.c.Get(ctx, ct.c.AdminPath("content", key), nil, &out)
	return out, err
}

func (ct Content) BulkUpsert(ctx context.Context, inputs []ContentInput) (int, error) {
	var out upsertResult
	_, err := ct.c.Post(ctx, ct.c.AdminPath("content", "bulk"), map[string]any{"contents": inputs}, &out)
	return out.Upserted, err
}

func (ct Content) Delete(ctx context.Context, key string) error {
	_, err := ct.c.Delete(ctx, ct.c.AdminPath("content", key), nil, nil)
	return err
}

type Posts struct {
	Resource[*Post]
}

func (c *Client) Posts() Posts {
	return Posts{newResource[*Post](c, "posts")}
}

func (p Posts) Create(ctx context.Context, input PostInput) (*Post, error) {
	var out *Post
	_, err := p.c.Post(ctx, p.c.AdminPath(p.name), input, &out)
	return out, err
}

func (p Posts) Update(ctx context.Context, id uuid.UUID, input PostUpdate) (*Post, error) {
	var out *Post
	_, err := p.c.Put(ctx, p.c.AdminPath(p.name, id.String()), input, &out)
	return out, err
}

func (p Posts) Delete(ctx context.Context, id uuid.UUID) error {
	return p.remove(ctx, id.String())
}

// Preview renders a post, published or not, for one locale.
func (p Posts) Preview(ctx context.Context, id uuid.UUID, locale shared.Locale) (*RenderedPost, error) {
	var out *RenderedPost
	_, err := p.c.Get(ctx, p.c.AdminPath(p.name, id.String(), "preview"), shared.R("locale", string(locale)), &out)
	return out, err
}

type Jobs struct {
	Resource[*Job]
}

func (c *Client) Jobs() Jobs {
	return Jobs{newResource[*Job](c, "jobs")}
}

func (j Jobs) Create(ctx context.Context, input JobInput) (*Job, error) {
	var out *Job
	_, err := j.c.Post(ctx, j.c.AdminPath(j.name), input, &out)
	return out, err
}

func (j Jobs) Update(ctx context.Context, id uuid.UUID, input JobInput) (*Job, error) {
	var out *Job
	_, err := j.c.Put(ctx, j.c.AdminPath(j.name, id.String()), input, &out)
	return out, err
}

func (j Jobs) Delete(ctx context.Context, id uuid.UUID) error {
	return j.remove(ctx, id.String())
}

type Newsletter struct {
	Resource[*Subscriber]
}

func (c *Client) Newsletter() Newsletter {
	return Newsletter{newResource[*Subscriber](c, "newsletter")}
}

// Count returns the number of active subscribers.
func (n Newsletter) Count(ctx context.Context) (int, error) {
	var out countResult
	_, err := n.c.Get(ctx, n.c.AdminPath(n.name, "count"), nil, &out)
	return out.Count, err
}

func (n Newsletter) Unsubscribe(ctx context.Context, email string) (*Subscriber, error) {
	var out *Subscriber
	_, err := n.c.Post(ctx, n.c.AdminPath(n.name, "unsubscribe"), map[string]string{"email": email}, &out)
	return out, err
}

func (n Newsletter) Export(ctx context.Context, params ListParams, w io.Writer) (int64, error) {
	return n.c.Download(ctx, n.c.AdminPath(n.name, "export"), params.Record(), w)
}

func (c *Client) Dashboard(ctx context.Context) (DashboardSummary, error) {
	var out DashboardSummary
	_, err := c.Get(ctx, c.AdminPath("dashboard"), nil, &out)
	return out, err
}

// Public wraps the unauthenticated site endpoints.
type Public struct {
	c *Client
}

func (c *Client) Public() Public {
	return Public{c: c}
}

// Contact submits the contact form and returns the stored message id.
func (p Public) Contact(ctx context.Context, req ContactRequest) (uuid.UUID, error) {
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	_, err := p.c.Post(ctx, p.c.PublicPath("contact"), req, &out)
	return out.ID, err
}

func (p Public) Subscribe(ctx context.Context, req SubscribeRequest) (*Subscriber, error) {
	var out *Subscriber
	_, err := p.c.Post(ctx, p.c.PublicPath("newsletter", "subscribe"), req, &out)
	return out, err
}

func (p Public) Unsubscribe(ctx context.Context, email string) error {
	_, err := p.c.Post(ctx, p.c.PublicPath("newsletter", "unsubscribe"), map[string]string{"email": email}, nil)
	return err
}

func (p Public) Posts(ctx context.Context, locale shared.Locale, params ListParams) (Page[*RenderedPost], error) {
	var items []*RenderedPost
	record := params.Record().Set("locale", string(locale))
	resp, err := p.c.Get(ctx, p.c.PublicPath("posts"), record, &items)
	if err != nil {
		return Page[*RenderedPost]{}, err
	}
	page := Page[*RenderedPost]{Items: items}
	if resp.Pagination != nil {
		page.Pagination = *resp.Pagination
	}
	return page, nil
}

func (p Public) Post(ctx context.Context, slug string, locale shared.Locale) (*RenderedPost, error) {
	var out *RenderedPost
	_, err := p.c.Get(ctx, p.c.PublicPath("posts", slug), shared.R("locale", string(locale)), &out)
	return out, err
}

// Translations returns the flat key/value bundle of a locale.
func (p Public) Translations(ctx context.Context, locale shared.Locale) (map[string]string, error) {
	out := map[string]string{}
	_, err := p.c.Get(ctx, p.c.PublicPath("translations", string(locale)), nil, &out)
	return out, err
}

func (p Public) Content(ctx context.Context, key string) (*ContentEntry, error) {
	var out *ContentEntry
	_, err := p.c.Get(ctx, p.c.PublicPath("content", key), nil, &out)
	return out, err
}
