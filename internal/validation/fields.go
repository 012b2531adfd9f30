package validation

import (
	"errors"
	"maps"
	"slices"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldErrors flattens ozzo-validation errors into field → message pairs.
// Nested errors are joined with dots. It returns nil for other error types.
func FieldErrors(err error) map[string]string {
	var errs ozzo.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	out := map[string]string{}
	flatten("", errs, out)
	return out
}

func flatten(prefix string, errs ozzo.Errors, out map[string]string) {
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested ozzo.Errors
		if errors.As(errs[field], &nested) {
			flatten(key, nested, out)
			continue
		}
		if errs[field] != nil {
			out[key] = errs[field].Error()
		}
	}
}

// Details returns the API error details for a validation failure: ozzo
// field errors under "fields" and schema issues under "issues".
func Details(err error) map[string]any {
	if err == nil {
		return nil
	}
	if fields := FieldErrors(err); len(fields) > 0 {
		return map[string]any{"fields": fields}
	}
	if errors.Is(err, ErrSchemaValidation) {
		return map[string]any{"issues": Issues(err)}
	}
	return nil
}
