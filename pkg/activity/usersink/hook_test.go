package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actor := uuid.New()
	messageID := uuid.New().String()

	cases := []struct {
		name  string
		event activity.Event
		check func(t *testing.T, records []usertypes.ActivityRecord)
	}{
		{
			name: "reply keeps actor and recipients",
			event: activity.Event{
				Verb:           "reply",
				ActorID:        actor.String(),
				ObjectType:     "messages",
				ObjectID:       messageID,
				Channel:        "sitecms",
				DefinitionCode: "messages:reply",
				Recipients:     []string{"sara@example.com"},
				Metadata:       map[string]any{"locale": "ar"},
				OccurredAt:     now,
			},
			check: func(t *testing.T, records []usertypes.ActivityRecord) {
				if len(records) != 1 {
					t.Fatalf("expected 1 record, got %d", len(records))
				}
				r := records[0]
				if r.ActorID != actor || r.Verb != "reply" || r.ObjectID != messageID || !r.OccurredAt.Equal(now) {
					t.Fatalf("unexpected record %+v", r)
				}
				if r.Data["definition_code"] != "messages:reply" || r.Data["locale"] != "ar" {
					t.Fatalf("unexpected data %v", r.Data)
				}
				if got, _ := r.Data["recipients"].([]string); len(got) != 1 || got[0] != "sara@example.com" {
					t.Fatalf("unexpected recipients %v", r.Data["recipients"])
				}
			},
		},
		{
			name:  "malformed ids become nil",
			event: activity.Event{Verb: "deactivate", ActorID: "admin", UserID: " ", ObjectType: "users"},
			check: func(t *testing.T, records []usertypes.ActivityRecord) {
				if len(records) != 1 || records[0].ActorID != uuid.Nil || records[0].UserID != uuid.Nil {
					t.Fatalf("expected nil ids, got %+v", records)
				}
				if records[0].Data == nil {
					t.Fatal("expected empty data map")
				}
			},
		},
		{
			name:  "blank verb skipped",
			event: activity.Event{Verb: "  ", ObjectType: "posts"},
			check: func(t *testing.T, records []usertypes.ActivityRecord) {
				if len(records) != 0 {
					t.Fatalf("expected no records, got %d", len(records))
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			if err := (usersink.Hook{Sink: sink}).Notify(context.Background(), tc.event); err != nil {
				t.Fatalf("notify: %v", err)
			}
			tc.check(t, sink.records)
		})
	}
}

func TestHookLeavesEventMetadataUntouched(t *testing.T) {
	sink := &recordingSink{}
	meta := map[string]any{"title": "Launch"}
	event := activity.Event{Verb: "publish", ObjectType: "posts", DefinitionCode: "posts:publish", Metadata: meta}

	if err := (usersink.Hook{Sink: sink}).Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, ok := meta["definition_code"]; ok {
		t.Fatal("expected event metadata to stay unchanged")
	}
}

func TestHookWithoutSink(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "create"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmitterDeliversThroughHook(t *testing.T) {
	sink := &recordingSink{}
	emitter := activity.NewEmitter(activity.Hooks{usersink.Hook{Sink: sink}}, activity.Config{
		Enabled: true,
		Channel: "admin",
	})

	if err := emitter.Emit(context.Background(), activity.Event{Verb: "archive", ObjectType: "messages", ObjectID: "m-1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	if sink.records[0].Channel != "admin" {
		t.Fatalf("expected default channel, got %q", sink.records[0].Channel)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatal("expected occurred_at to be stamped")
	}
}

func TestDisabledEmitterIsInert(t *testing.T) {
	sink := &recordingSink{}
	emitter := activity.NewEmitter(activity.Hooks{usersink.Hook{Sink: sink}}, activity.Config{})

	if emitter.Enabled() {
		t.Fatal("expected emitter to be disabled")
	}
	_ = emitter.Emit(context.Background(), activity.Event{Verb: "create"})
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
}
