package content

import "github.com/goliatone/go-sitecms/internal/validation"

var bilingualSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"ar": map[string]any{"type": "string"},
		"en": map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

// MenuSchema governs "menu." entries: an ordered list of labelled links,
// optionally nested one level.
func MenuSchema() map[string]any {
	link := map[string]any{
		"type":     "object",
		"required": []any{"label", "url"},
		"properties": map[string]any{
			"label":    bilingualSchema,
			"url":      map[string]any{"type": "string", "minLength": 1},
			"external": map[string]any{"type": "boolean"},
			"order":    map[string]any{"type": "integer"},
		},
	}
	item := map[string]any{
		"type":     "object",
		"required": []any{"label", "url"},
		"properties": map[string]any{
			"label":    bilingualSchema,
			"url":      map[string]any{"type": "string", "minLength": 1},
			"external": map[string]any{"type": "boolean"},
			"order":    map[string]any{"type": "integer"},
			"children": map[string]any{"type": "array", "items": link},
		},
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"items"},
		"properties": map[string]any{
			"items": map[string]any{"type": "array", "items": item},
		},
	}
}

// SettingsSchema governs "settings." entries.
func SettingsSchema() map[string]any {
	return map[string]any{
		"type":          "object",
		"minProperties": 1,
		"properties": map[string]any{
			"siteName":     bilingualSchema,
			"tagline":      bilingualSchema,
			"contactEmail": map[string]any{"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
			"phone":        map[string]any{"type": "string"},
			"social": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"maintenance": map[string]any{"type": "boolean"},
		},
	}
}

// DefaultRegistry registers the built-in menu and settings schemas.
func DefaultRegistry() (*validation.Registry, error) {
	registry := validation.NewRegistry()
	if err := registry.Register("menu.", MenuSchema()); err != nil {
		return nil, err
	}
	if err := registry.Register("settings.", SettingsSchema()); err != nil {
		return nil, err
	}
	return registry, nil
}
