package auditcmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecms/internal/activity"
	auditcmd "github.com/goliatone/go-sitecms/internal/commands/audit"
	"github.com/goliatone/go-sitecms/internal/listing"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seededLog(t *testing.T) activity.Service {
	t.Helper()
	svc := activity.NewService(activity.NewMemoryRepository(), activity.WithClock(func() time.Time { return now }))
	for _, age := range []time.Duration{400 * 24 * time.Hour, 200 * 24 * time.Hour, 24 * time.Hour} {
		if _, err := svc.Record(context.Background(), activity.Entry{
			Action:     "update",
			Resource:   "post",
			OccurredAt: now.Add(-age),
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	return svc
}

func TestPurgeDryRunOnlyCounts(t *testing.T) {
	log := seededLog(t)
	handler := auditcmd.NewPurgeActivityHandler(log, nil, auditcmd.PurgeWithClock(func() time.Time { return now }))

	var matched int
	if err := handler.Execute(context.Background(), auditcmd.PurgeActivityCommand{
		OlderThan: 30 * 24 * time.Hour,
		DryRun:    true,
		Count:     &matched,
	}); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if matched != 2 {
		t.Fatalf("expected two old entries, got %d", matched)
	}

	remaining, err := log.List(context.Background(), listing.NewQuery())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if remaining.Pagination.Total != 3 {
		t.Fatalf("dry run must not delete, got %d entries", remaining.Pagination.Total)
	}
}

func TestPurgeBeforeCutoff(t *testing.T) {
	log := seededLog(t)
	handler := auditcmd.NewPurgeActivityHandler(log, nil)

	var purged int
	if err := handler.Execute(context.Background(), auditcmd.PurgeActivityCommand{
		Before: now.Add(-300 * 24 * time.Hour),
		Count:  &purged,
	}); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected one purged entry, got %d", purged)
	}
}

func TestPurgeCronUsesRetention(t *testing.T) {
	log := seededLog(t)
	handler := auditcmd.NewPurgeActivityHandler(log, nil,
		auditcmd.PurgeWithClock(func() time.Time { return now }),
		auditcmd.PurgeWithRetention(7*24*time.Hour),
		auditcmd.PurgeWithCronExpression("0 3 * * *"),
	)
	if got := handler.CronOptions().Expression; got != "0 3 * * *" {
		t.Fatalf("expected cron expression override, got %q", got)
	}
	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron run: %v", err)
	}

	remaining, err := log.List(context.Background(), listing.NewQuery())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if remaining.Pagination.Total != 1 {
		t.Fatalf("expected only the recent entry to survive, got %d", remaining.Pagination.Total)
	}
}

func TestPurgeRequiresSingleCutoff(t *testing.T) {
	handler := auditcmd.NewPurgeActivityHandler(seededLog(t), nil)
	for _, msg := range []auditcmd.PurgeActivityCommand{
		{},
		{Before: now, OlderThan: time.Hour},
	} {
		err := handler.Execute(context.Background(), msg)
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error for %+v, got %v", msg, err)
		}
	}
}

func TestExportWritesJSON(t *testing.T) {
	handler := auditcmd.NewExportActivityHandler(seededLog(t), nil)

	var buf bytes.Buffer
	var count int
	if err := handler.Execute(context.Background(), auditcmd.ExportActivityCommand{
		Format: "JSON",
		Query:  listing.NewQuery(),
		Output: &buf,
		Count:  &count,
	}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected three exported entries, got %d", count)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected three JSON rows, got %d", len(decoded))
	}
}

func TestExportRejectsUnknownFormatAndMissingOutput(t *testing.T) {
	handler := auditcmd.NewExportActivityHandler(seededLog(t), nil)
	for _, msg := range []auditcmd.ExportActivityCommand{
		{Format: "xml", Output: &bytes.Buffer{}},
		{Format: "csv"},
	} {
		if err := handler.Execute(context.Background(), msg); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
}
