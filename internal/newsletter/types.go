package newsletter

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
)

// Subscriber is a newsletter mailing list entry.
type Subscriber struct {
	bun.BaseModel `bun:"table:newsletter_subscribers,alias:ns"`

	ID             uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Email          string        `bun:"email,notnull,unique" json:"email"`
	Locale         string        `bun:"locale" json:"locale"`
	Status         domain.Status `bun:"status,notnull" json:"status"`
	Source         string        `bun:"source" json:"source,omitempty"`
	SubscribedAt   time.Time     `bun:"subscribed_at" json:"subscribedAt"`
	UnsubscribedAt *time.Time    `bun:"unsubscribed_at,nullzero" json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (s *Subscriber) GetID() uuid.UUID   { return s.ID }
func (s *Subscriber) SetID(id uuid.UUID) { s.ID = id }

func (s *Subscriber) Clone() *Subscriber {
	cloned := *s
	if s.UnsubscribedAt != nil {
		at := *s.UnsubscribedAt
		cloned.UnsubscribedAt = &at
	}
	return &cloned
}

// SubscribeRequest is the public signup payload.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Locale string `json:"locale"`
	Source string `json:"source"`
}
