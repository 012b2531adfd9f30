package messages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
)

// Message is a contact form submission.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:msg"`

	ID        uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Name      string        `bun:"name,notnull" json:"name"`
	Email     string        `bun:"email,notnull" json:"email"`
	Phone     string        `bun:"phone" json:"phone,omitempty"`
	Subject   string        `bun:"subject,notnull" json:"subject"`
	Body      string        `bun:"body,notnull" json:"message"`
	Locale    string        `bun:"locale" json:"locale,omitempty"`
	Status    domain.Status `bun:"status,notnull" json:"status"`
	Reply     string        `bun:"reply" json:"reply,omitempty"`
	RepliedAt *time.Time    `bun:"replied_at,nullzero" json:"repliedAt,omitempty"`
	RepliedBy uuid.UUID     `bun:"replied_by,type:uuid" json:"repliedBy,omitempty"`
	IP        string        `bun:"ip" json:"ip,omitempty"`
	CreatedAt time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (m *Message) GetID() uuid.UUID   { return m.ID }
func (m *Message) SetID(id uuid.UUID) { m.ID = id }

func (m *Message) Clone() *Message {
	cloned := *m
	if m.RepliedAt != nil {
		at := *m.RepliedAt
		cloned.RepliedAt = &at
	}
	return &cloned
}

// SubmitRequest is the public contact form payload.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Body    string `json:"message"`
	Locale  string `json:"locale"`
	IP      string `json:"-"`
}

// ReplyRequest records the admin's answer to a message.
type ReplyRequest struct {
	ID      uuid.UUID `json:"-"`
	Reply   string    `json:"reply"`
	ActorID uuid.UUID `json:"-"`
}

// Stats counts messages per status.
type Stats struct {
	Total    int                   `json:"total"`
	ByStatus map[domain.Status]int `json:"byStatus"`
}
