// Package validation wraps JSON-schema checks for free-form payloads and
// converts ozzo-validation errors into API details.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Issue is a single schema violation.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadError lists every violation found in a payload.
type PayloadError struct {
	Key    string
	Issues []Issue
	Cause  error
}

func (e *PayloadError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	msg := strings.Join(parts, "; ")
	if e.Key != "" {
		msg = e.Key + ": " + msg
	}
	return msg
}

func (e *PayloadError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts schema issues from err.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) {
		return payloadErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		return collectIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled JSON schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a draft 2020-12 schema from its map form.
func Compile(schema map[string]any) (*Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return CompileJSON(encoded)
}

// CompileJSON compiles a schema document.
func CompileJSON(document []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks payload. Values are round-tripped through encoding/json so
// typed Go values validate the same way decoded JSON does.
func (s *Schema) Validate(payload any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := normalize(payload)
	if err != nil {
		return &PayloadError{Issues: []Issue{{Message: err.Error()}}, Cause: err}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &PayloadError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// Registry maps key prefixes to schemas. The longest matching prefix wins.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Register compiles and stores schema for keys starting with prefix.
func (r *Registry) Register(prefix string, schema map[string]any) error {
	compiled, err := Compile(schema)
	if err != nil {
		return fmt.Errorf("register %q: %w", prefix, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[prefix] = compiled
	return nil
}

// Prefixes returns the registered prefixes in sorted order.
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemas))
	for prefix := range r.schemas {
		out = append(out, prefix)
	}
	slices.Sort(out)
	return out
}

// Lookup returns the schema governing key.
func (r *Registry) Lookup(key string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  *Schema
		match string
	)
	for prefix, schema := range r.schemas {
		if strings.HasPrefix(key, prefix) && len(prefix) > len(match) {
			best, match = schema, prefix
		}
	}
	return best, best != nil
}

// Validate checks payload against the schema registered for key. Keys with no
// schema are accepted as-is.
func (r *Registry) Validate(key string, payload any) error {
	schema, ok := r.Lookup(key)
	if !ok {
		return nil
	}
	if err := schema.Validate(payload); err != nil {
		var payloadErr *PayloadError
		if errors.As(err, &payloadErr) {
			payloadErr.Key = key
		}
		return err
	}
	return nil
}

func normalize(payload any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)
	return issues
}
