package logging

import (
	"maps"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// WithFields applies fields when logger supports FieldsLogger and returns it
// unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithEntity tags logger with the resource kind and identifier being handled.
func WithEntity(logger interfaces.Logger, resource, id string) interfaces.Logger {
	fields := map[string]any{}
	if resource != "" {
		fields["resource"] = resource
	}
	if id != "" {
		fields["resource_id"] = id
	}
	return WithFields(logger, fields)
}
