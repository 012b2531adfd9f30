package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Item is a showcased project or an offered service.
type Item struct {
	bun.BaseModel `bun:"table:portfolio_items,alias:pi"`

	ID        uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	Kind      domain.PortfolioKind `bun:"kind,notnull" json:"kind"`
	Slug      string               `bun:"slug,notnull" json:"slug"`
	Title     shared.BilingualText `bun:"embed:title_" json:"title"`
	Summary   shared.BilingualText `bun:"embed:summary_" json:"summary"`
	Body      shared.BilingualText `bun:"embed:body_" json:"body"`
	Category  string               `bun:"category" json:"category"`
	Image     string               `bun:"image" json:"image,omitempty"`
	Status    domain.Status        `bun:"status,notnull" json:"status"`
	Featured  bool                 `bun:"featured,notnull,default:false" json:"featured"`
	Order     int                  `bun:"sort_order,notnull,default:0" json:"order"`
	CreatedAt time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (i *Item) GetID() uuid.UUID   { return i.ID }
func (i *Item) SetID(id uuid.UUID) { i.ID = id }

func (i *Item) Clone() *Item {
	cloned := *i
	return &cloned
}

// ItemInput carries the editable fields of an item.
type ItemInput struct {
	Kind     string               `json:"kind"`
	Slug     string               `json:"slug"`
	Title    shared.BilingualText `json:"title"`
	Summary  shared.BilingualText `json:"summary"`
	Body     shared.BilingualText `json:"body"`
	Category string               `json:"category"`
	Image    string               `json:"image"`
	Status   string               `json:"status"`
	Featured bool                 `json:"featured"`
	Order    int                  `json:"order"`
	ActorID  uuid.UUID            `json:"-"`
}
