package content

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is a keyed JSON document backing a site section, menu, or setting.
type Entry struct {
	bun.BaseModel `bun:"table:content_entries,alias:ce"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Key       string         `bun:"key,notnull,unique" json:"key"`
	Data      map[string]any `bun:"data,type:jsonb" json:"data"`
	UpdatedBy uuid.UUID      `bun:"updated_by,type:uuid" json:"updatedBy,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (e *Entry) GetID() uuid.UUID   { return e.ID }
func (e *Entry) SetID(id uuid.UUID) { e.ID = id }

// Clone copies the entry. Data is copied one level deep; nested values are
// treated as immutable.
func (e *Entry) Clone() *Entry {
	cloned := *e
	cloned.Data = maps.Clone(e.Data)
	return &cloned
}

// EntryInput is one element of a bulk save.
type EntryInput struct {
	Key  string         `json:"key"`
	Data map[string]any `json:"data"`
}
