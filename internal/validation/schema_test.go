package validation

import (
	"errors"
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

var menuSchema = map[string]any{
	"type":     "object",
	"required": []any{"items"},
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"href"},
				"properties": map[string]any{
					"href": map[string]any{"type": "string"},
				},
			},
		},
	},
}

func TestRegistryValidatesByLongestPrefix(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("menu.", menuSchema); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("menu.footer", map[string]any{"type": "object"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := registry.Validate("menu.main", map[string]any{"items": []any{map[string]any{"href": "/"}}}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err := registry.Validate("menu.main", map[string]any{"items": []any{map[string]any{"label": "x"}}})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	if issues := Issues(err); len(issues) == 0 || issues[0].Location != "/items/0" {
		t.Fatalf("unexpected issues %+v", issues)
	}

	if err := registry.Validate("menu.footer", map[string]any{}); err != nil {
		t.Fatalf("longest prefix should win, got %v", err)
	}
	if err := registry.Validate("hero.home", "anything"); err != nil {
		t.Fatalf("unregistered keys must pass, got %v", err)
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	if _, err := Compile(map[string]any{"type": 12}); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestSchemaValidateTypedValues(t *testing.T) {
	schema, err := Compile(map[string]any{
		"type":       "object",
		"properties": map[string]any{"count": map[string]any{"type": "integer"}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	type payload struct {
		Count int `json:"count"`
	}
	if err := schema.Validate(payload{Count: 3}); err != nil {
		t.Fatalf("expected struct payload to validate, got %v", err)
	}
}

func TestDetails(t *testing.T) {
	err := ozzo.Errors{
		"email": ozzo.NewError("validation_is_email", "must be a valid email address"),
		"title": ozzo.Errors{"en": ozzo.NewError("validation_required", "cannot be blank")},
	}
	details := Details(err)
	fields, ok := details["fields"].(map[string]string)
	if !ok || fields["title.en"] != "cannot be blank" || fields["email"] == "" {
		t.Fatalf("unexpected details %v", details)
	}
	if Details(errors.New("plain")) != nil {
		t.Fatalf("plain errors carry no details")
	}
}
