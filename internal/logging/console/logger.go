// Package console provides a dependency-free key=value logger used as the
// default sitecms logging provider.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Level is the severity of an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configuration string onto a Level.
func ParseLevel(raw string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// Options configures NewProvider. Zero values select stdout, time.Now, and
// DEBUG.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

type sink struct {
	mu       sync.Mutex
	writer   io.Writer
	now      func() time.Time
	minLevel Level
}

// NewProvider returns a LoggerProvider that writes one line per entry.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{writer: opts.Writer, now: opts.TimeFunc, minLevel: LevelDebug}
	if s.writer == nil {
		s.writer = os.Stdout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.minLevel = *opts.MinLevel
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &logger{sink: s, fields: map[string]any{"logger": name}}
}

func (s *sink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// write failures are dropped; there is nowhere else to report them
	_, _ = io.WriteString(s.writer, line+"\n")
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return &logger{sink: l.sink, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: maps.Clone(l.fields), ctx: ctx}
}

func (l *logger) emit(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.minLevel {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	maps.Copy(fields, pairs(args))
	l.sink.write(render(l.sink.now().UTC(), level, msg, fields))
}

// pairs converts alternating key/value args into fields. Keys that are not
// strings, and a dangling final value, are stored positionally.
func pairs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			out[positional(i)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = positional(i / 2)
		}
		out[key] = args[i+1]
	}
	return out
}

func positional(index int) string {
	return "field_" + strconv.Itoa(index)
}

func render(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(renderValue(fields[key]))
	}
	return b.String()
}

func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case time.Time:
		return quote(v.UTC().Format(time.RFC3339Nano))
	case *time.Time:
		if v == nil {
			return "null"
		}
		return quote(v.UTC().Format(time.RFC3339Nano))
	case error:
		return quote(v.Error())
	case fmt.Stringer:
		return quote(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' }) {
		return strconv.Quote(value)
	}
	return value
}
