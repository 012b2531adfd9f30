package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "sitecms.logging.fields"

// ContextWithFields stores structured fields on ctx for loggers created with
// WithContext. Fields already present are kept unless overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// ContextWithRequest annotates ctx with the request identifiers the HTTP layer
// attaches to every entry.
func ContextWithRequest(ctx context.Context, requestID, method, path string) context.Context {
	fields := map[string]any{}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if method != "" {
		fields["method"] = method
	}
	if path != "" {
		fields["path"] = path
	}
	return ContextWithFields(ctx, fields)
}
