package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/logging/console"
)

func TestConsoleLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 2, 1, 9, 30, 0, 125000000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := logging.ModuleLogger(provider, logging.ModuleMessages)
	ctx := logging.ContextWithRequest(context.Background(), "req-42", "", "")
	logger = logger.WithContext(ctx)

	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	logger.Info("messages.bulk_status", "ids", 2, "message_id", id, "status", "archived")

	got := strings.TrimSpace(buf.String())
	want := "2025-02-01T09:30:00.125Z INFO messages.bulk_status ids=2 logger=sitecms.messages message_id=0f8fad5b-d9cb-469f-a165-70867728950e module=sitecms.messages request_id=req-42 status=archived"
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	level, ok := console.ParseLevel("warning")
	if !ok || level != console.LevelWarn {
		t.Fatalf("expected warn level, got %v", level)
	}
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level})

	logger := provider.GetLogger("sitecms.test")
	logger.Info("skipped")
	logger.Error("kept", "err", errors.New("boom happened"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `err="boom happened"`) {
		t.Fatalf("expected quoted error value, got %s", lines[0])
	}
}

func TestConsoleLoggerPositionalArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Debug("odd", "key", "value", "dangling")

	if !strings.Contains(buf.String(), "field_2=dangling") {
		t.Fatalf("expected dangling arg stored positionally, got %s", buf.String())
	}
}
