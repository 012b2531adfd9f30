package translations

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Completeness filter values.
const (
	StateComplete = "complete"
	StateMissing  = "missing"
)

// Item is a UI string in both locales. Its ID is derived from namespace and
// key, so the same pair always addresses the same row.
type Item struct {
	bun.BaseModel `bun:"table:translations,alias:tr"`

	ID          uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	Namespace   string               `bun:"namespace,notnull" json:"namespace"`
	Key         string               `bun:"key,notnull" json:"key"`
	Value       shared.BilingualText `bun:"embed:value_" json:"value"`
	Description string               `bun:"description" json:"description,omitempty"`
	UpdatedBy   uuid.UUID            `bun:"updated_by,type:uuid" json:"updatedBy,omitempty"`
	CreatedAt   time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (i *Item) GetID() uuid.UUID   { return i.ID }
func (i *Item) SetID(id uuid.UUID) { i.ID = id }

func (i *Item) Clone() *Item {
	cloned := *i
	return &cloned
}

// FullKey is the flattened bundle key, "namespace.key".
func (i *Item) FullKey() string {
	return i.Namespace + "." + i.Key
}

// State reports "complete" when both locales are filled in.
func (i *Item) State() string {
	if i.Value.IsComplete() {
		return StateComplete
	}
	return StateMissing
}

// ItemInput creates or replaces a translation.
type ItemInput struct {
	Namespace   string               `json:"namespace"`
	Key         string               `json:"key"`
	Value       shared.BilingualText `json:"value"`
	Description string               `json:"description"`
	ActorID     uuid.UUID            `json:"-"`
}

// MissingReport summarises translation coverage.
type MissingReport struct {
	Total    int                   `json:"total"`
	Complete int                   `json:"complete"`
	ByLocale map[shared.Locale]int `json:"byLocale"`
	Items    []*Item               `json:"items"`
}
