// Package store provides the generic repositories every sitecms resource is
// persisted through: an in-memory implementation for tests and single-node
// setups, and a bun implementation for SQLite and Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/listing"
)

// ErrStatusUnsupported is returned by UpdateStatus for resources without a
// status column.
var ErrStatusUnsupported = errors.New("store: resource has no status")

// ErrLookupUnsupported is returned by FindOne for undeclared lookup columns.
var ErrLookupUnsupported = errors.New("store: lookup column not declared")

// ErrCounterUnsupported is returned by Increment for undeclared counter
// columns.
var ErrCounterUnsupported = errors.New("store: counter column not declared")

// Model is implemented by pointer record types.
type Model[T any] interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
	Clone() T
}

// Repository is the persistence contract shared by all resources.
type Repository[T Model[T]] interface {
	Create(ctx context.Context, record T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	FindOne(ctx context.Context, column, value string) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q listing.Query) (listing.Result[T], error)
	Find(ctx context.Context, q listing.Query) ([]T, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	// Increment adds delta to a counter column and returns the new value. Only
	// that column is written.
	Increment(ctx context.Context, id uuid.UUID, column string, delta int) (int, error)
}

// Options describes a resource to either repository implementation.
type Options[T any] struct {
	// Resource names the record kind in errors and cache keys.
	Resource string
	Spec     listing.Spec[T]
	// Lookups maps columns usable with FindOne to in-memory accessors.
	Lookups map[string]func(T) string
	// SetStatus enables UpdateStatus.
	SetStatus func(record T, status string, now time.Time)
	// Counters maps columns usable with Increment to in-memory accessors.
	Counters map[string]func(T) *int
	Clock     func() time.Time
}

func (o Options[T]) now() time.Time {
	if o.Clock != nil {
		return o.Clock().UTC()
	}
	return time.Now().UTC()
}

// NotFoundError is returned when a record cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ConflictError is returned when a unique attribute is already taken.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// Count returns the number of records matching q.
func Count[T Model[T]](ctx context.Context, repo Repository[T], q listing.Query) (int, error) {
	q.Page = 1
	q.Limit = 1
	result, err := repo.List(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.Pagination.Total, nil
}

// ParseIDs converts string identifiers, rejecting malformed ones.
func ParseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("store: invalid id %q: %w", value, err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
