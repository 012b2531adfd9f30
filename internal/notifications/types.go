package notifications

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Read-state filter values.
const (
	StateRead   = "read"
	StateUnread = "unread"
)

// Notification is an admin panel notice. A nil UserID addresses every admin.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        uuid.UUID               `bun:",pk,type:uuid" json:"id"`
	UserID    uuid.UUID               `bun:"user_id,type:uuid" json:"userId,omitempty"`
	Title     shared.BilingualText    `bun:"embed:title_" json:"title"`
	Body      shared.BilingualText    `bun:"embed:body_" json:"message"`
	Type      domain.NotificationType `bun:"type,notnull" json:"type"`
	Read      bool                    `bun:"is_read,notnull" json:"read"`
	Link      string                  `bun:"link" json:"link,omitempty"`
	ReadAt    *time.Time              `bun:"read_at,nullzero" json:"readAt,omitempty"`
	CreatedAt time.Time               `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
}

func (n *Notification) GetID() uuid.UUID   { return n.ID }
func (n *Notification) SetID(id uuid.UUID) { n.ID = id }

func (n *Notification) Clone() *Notification {
	cloned := *n
	if n.ReadAt != nil {
		at := *n.ReadAt
		cloned.ReadAt = &at
	}
	return &cloned
}

// State reports "read" or "unread".
func (n *Notification) State() string {
	if n.Read {
		return StateRead
	}
	return StateUnread
}

// Addressed reports whether the notification is visible to user. uuid.Nil
// stands for "any admin".
func (n *Notification) Addressed(user uuid.UUID) bool {
	return user == uuid.Nil || n.UserID == uuid.Nil || n.UserID == user
}

// CreateRequest describes a new notification.
type CreateRequest struct {
	UserID uuid.UUID               `json:"userId"`
	Title  shared.BilingualText    `json:"title"`
	Body   shared.BilingualText    `json:"message"`
	Type   domain.NotificationType `json:"type"`
	Link   string                  `json:"link"`
}
