// Package activity stores the admin audit log. It is the sink every service
// emits through, via the go-users ActivitySink contract.
package activity

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	events "github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/activity/usersink"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Channel tags entries recorded by sitecms services.
const Channel = "sitecms"

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var (
	ErrFormatUnsupported = errors.New("activity: export format must be csv or json")
	ErrActionRequired    = errors.New("activity: action is required")
)

// Service records and queries the audit log.
type Service interface {
	interfaces.ActivitySink
	Record(ctx context.Context, entry Entry) (*Entry, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Entry], error)
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	// Export writes every entry matching q, ignoring pagination.
	Export(ctx context.Context, q listing.Query, format string, w io.Writer) (int, error)
	// Purge deletes entries that occurred before the cutoff.
	Purge(ctx context.Context, before time.Time) (int, error)
}

type ServiceOption func(*service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger interfaces.Logger
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewEmitter returns an enabled emitter that records through sink.
func NewEmitter(sink interfaces.ActivitySink) *events.Emitter {
	return events.NewEmitter(events.Hooks{usersink.Hook{Sink: sink}}, events.Config{
		Enabled: sink != nil,
		Channel: Channel,
	})
}

func (s *service) Record(ctx context.Context, entry Entry) (*Entry, error) {
	entry.Action = strings.TrimSpace(entry.Action)
	if entry.Action == "" {
		return nil, ErrActionRequired
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = s.now()
	}
	entry.OccurredAt = entry.OccurredAt.UTC()
	if info, ok := RequestFromContext(ctx); ok {
		if entry.ActorID == uuid.Nil {
			entry.ActorID = info.ActorID
		}
		if entry.ActorName == "" {
			entry.ActorName = info.ActorName
		}
		if entry.IP == "" {
			entry.IP = info.IP
		}
	}
	if entry.ActorName == "" {
		entry.ActorName = "system"
		if entry.ActorID != uuid.Nil {
			entry.ActorName = entry.ActorID.String()
		}
	}
	if entry.Description == "" {
		entry.Description = strings.TrimSpace(entry.Action + " " + entry.Resource)
	}
	entry.ID = uuid.Nil
	return s.repo.Create(ctx, &entry)
}

// Log implements interfaces.ActivitySink.
func (s *service) Log(ctx context.Context, record interfaces.ActivityRecord) error {
	data := record.Data
	entry := Entry{
		ActorID:     record.ActorID,
		ActorName:   stringValue(data, "actor_name"),
		Action:      record.Verb,
		Resource:    record.ObjectType,
		ResourceID:  record.ObjectID,
		Description: stringValue(data, "description"),
		IP:          stringValue(data, "ip"),
		Channel:     record.Channel,
		OccurredAt:  record.OccurredAt,
	}
	if len(data) > 0 {
		entry.Metadata = make(map[string]any, len(data))
		for key, value := range data {
			switch key {
			case "actor_name", "description", "ip":
			default:
				entry.Metadata[key] = value
			}
		}
	}
	if _, err := s.Record(ctx, entry); err != nil {
		s.logger.Warn("activity.record_failed", "action", record.Verb, "error", err)
		return err
	}
	return nil
}

func stringValue(data map[string]any, key string) string {
	if value, ok := data[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Entry], error) {
	return s.repo.List(ctx, q)
}

func (s *service) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	q := listing.NewQuery()
	q.Limit = limit
	result, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *service) Export(ctx context.Context, q listing.Query, format string, w io.Writer) (int, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatCSV && format != FormatJSON {
		return 0, ErrFormatUnsupported
	}
	entries, err := s.repo.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	if format == FormatJSON {
		if entries == nil {
			entries = []*Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return 0, fmt.Errorf("activity: export json: %w", err)
		}
		return len(entries), nil
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"occurredAt", "actor", "action", "resource", "resourceId", "description", "ip"}); err != nil {
		return 0, fmt.Errorf("activity: export csv: %w", err)
	}
	for _, entry := range entries {
		row := []string{
			entry.OccurredAt.UTC().Format(time.RFC3339),
			entry.ActorName,
			entry.Action,
			entry.Resource,
			entry.ResourceID,
			entry.Description,
			entry.IP,
		}
		if err := out.Write(row); err != nil {
			return 0, fmt.Errorf("activity: export csv: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return 0, fmt.Errorf("activity: export csv: %w", err)
	}
	return len(entries), nil
}

func (s *service) Purge(ctx context.Context, before time.Time) (int, error) {
	cutoff := before.UTC().Add(-time.Nanosecond)
	q := listing.NewQuery()
	q.To = &cutoff
	entries, err := s.repo.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	purged, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("activity.purged", "before", before.UTC(), "purged", purged)
	return purged, nil
}
