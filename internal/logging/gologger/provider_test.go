package gologger

import (
	"context"
	"slices"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-sitecms/internal/logging"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestProviderReturnsUsableLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console", Focus: []string{" sitecms.posts "}})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	logger := p.GetLogger("sitecms.posts")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.WithFields(map[string]any{"module": "sitecms.posts"}).Debug("posts.ready")

	var nilProvider *Provider
	nilProvider.GetLogger("any").Info("dropped")
}

func TestAdapterForwardsCalls(t *testing.T) {
	stub := &stubLogger{}
	logger := adapt(stub)

	logger.Trace("t")
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Fatal("f")

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !slices.Equal(stub.calls, want) {
		t.Fatalf("expected calls %v, got %v", want, stub.calls)
	}

	fields := map[string]any{"resource": "post"}
	if child := logging.WithFields(logger, fields); child == nil {
		t.Fatal("expected child logger")
	}
	fields["resource"] = "job"
	if len(stub.fields) != 1 || stub.fields[0]["resource"] != "post" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	logger.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context forwarded, got %v", stub.contexts)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*stubLogger)(nil)
	_ glog.FieldsLogger = (*stubLogger)(nil)
)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
