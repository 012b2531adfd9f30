package activity

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is one line of the admin audit log.
type Entry struct {
	bun.BaseModel `bun:"table:activity_log,alias:al"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ActorID     uuid.UUID      `bun:"actor_id,type:uuid" json:"actorId,omitempty"`
	ActorName   string         `bun:"actor_name" json:"actorName"`
	Action      string         `bun:"action,notnull" json:"action"`
	Resource    string         `bun:"resource" json:"resource"`
	ResourceID  string         `bun:"resource_id" json:"resourceId,omitempty"`
	Description string         `bun:"description" json:"description"`
	IP          string         `bun:"ip" json:"ip,omitempty"`
	Channel     string         `bun:"channel" json:"channel,omitempty"`
	Metadata    map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	OccurredAt  time.Time      `bun:"occurred_at,notnull" json:"occurredAt"`
}

func (e *Entry) GetID() uuid.UUID   { return e.ID }
func (e *Entry) SetID(id uuid.UUID) { e.ID = id }

func (e *Entry) Clone() *Entry {
	cloned := *e
	cloned.Metadata = maps.Clone(e.Metadata)
	return &cloned
}

// RequestInfo describes who performed a request, for the audit log.
type RequestInfo struct {
	ActorID   uuid.UUID
	ActorName string
	IP        string
}

type requestInfoKey struct{}

// ContextWithRequest attaches info to ctx; the sink reads it when services
// emit events without an actor.
func ContextWithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestFromContext returns the info set by ContextWithRequest.
func RequestFromContext(ctx context.Context) (RequestInfo, bool) {
	if ctx == nil {
		return RequestInfo{}, false
	}
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}
