// Package usersink forwards activity events to a go-users ActivitySink.
package usersink

import (
	"context"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Hook maps events onto go-users activity records.
type Hook struct {
	Sink interfaces.ActivitySink
}

var _ activity.Hook = Hook{}

// Notify implements activity.Hook. Events without a verb are skipped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || strings.TrimSpace(event.Verb) == "" {
		return nil
	}

	data := maps.Clone(event.Metadata)
	if data == nil {
		data = map[string]any{}
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string(nil), event.Recipients...)
	}

	return h.Sink.Log(ctx, interfaces.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	})
}

func parseUUID(raw string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil
	}
	return id
}
