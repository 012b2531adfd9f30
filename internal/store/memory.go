package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/listing"
)

// MemoryRepository keeps records in a map and clones them on every read and
// write so callers never share state with the store.
type MemoryRepository[T Model[T]] struct {
	mu      sync.RWMutex
	records map[uuid.UUID]T
	order   []uuid.UUID
	opts    Options[T]
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository[T Model[T]](opts Options[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		records: make(map[uuid.UUID]T),
		opts:    opts,
	}
}

func (m *MemoryRepository[T]) Create(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := record.Clone()
	if cloned.GetID() == uuid.Nil {
		cloned.SetID(uuid.New())
	}
	id := cloned.GetID()
	if _, exists := m.records[id]; exists {
		var zero T
		return zero, &ConflictError{Resource: m.opts.Resource, Field: "id", Value: id.String()}
	}
	m.records[id] = cloned
	m.order = append(m.order, id)
	return cloned.Clone(), nil
}

func (m *MemoryRepository[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.opts.Resource, Key: id.String()}
	}
	return record.Clone(), nil
}

func (m *MemoryRepository[T]) FindOne(_ context.Context, column, value string) (T, error) {
	var zero T
	lookup, ok := m.opts.Lookups[column]
	if !ok {
		return zero, ErrLookupUnsupported
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if record := m.records[id]; lookup(record) == value {
			return record.Clone(), nil
		}
	}
	return zero, &NotFoundError{Resource: m.opts.Resource, Key: value}
}

func (m *MemoryRepository[T]) Update(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := record.GetID()
	stored, ok := m.records[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.opts.Resource, Key: id.String()}
	}
	cloned := record.Clone()
	// counters only change through Increment
	for _, counter := range m.opts.Counters {
		*counter(cloned) = *counter(stored)
	}
	m.records[id] = cloned
	return cloned.Clone(), nil
}

func (m *MemoryRepository[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Resource: m.opts.Resource, Key: id.String()}
	}
	m.remove(id)
	return nil
}

func (m *MemoryRepository[T]) List(_ context.Context, q listing.Query) (listing.Result[T], error) {
	result := listing.Apply(m.snapshot(), m.opts.Spec, q)
	return result, nil
}

func (m *MemoryRepository[T]) Find(_ context.Context, q listing.Query) ([]T, error) {
	q = q.Normalized()
	matched := listing.Filter(m.snapshot(), m.opts.Spec, q)
	listing.Sort(matched, m.opts.Spec, q.Sort)
	return matched, nil
}

func (m *MemoryRepository[T]) UpdateStatus(_ context.Context, ids []uuid.UUID, status string) (int, error) {
	if m.opts.SetStatus == nil {
		return 0, ErrStatusUnsupported
	}
	now := m.opts.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	modified := 0
	for _, id := range ids {
		record, ok := m.records[id]
		if !ok {
			continue
		}
		m.opts.SetStatus(record, status, now)
		modified++
	}
	return modified, nil
}

func (m *MemoryRepository[T]) DeleteMany(_ context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if _, ok := m.records[id]; !ok {
			continue
		}
		m.remove(id)
		deleted++
	}
	return deleted, nil
}

func (m *MemoryRepository[T]) Increment(_ context.Context, id uuid.UUID, column string, delta int) (int, error) {
	counter, ok := m.opts.Counters[column]
	if !ok {
		return 0, ErrCounterUnsupported
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return 0, &NotFoundError{Resource: m.opts.Resource, Key: id.String()}
	}
	value := counter(record)
	*value += delta
	return *value, nil
}

// snapshot clones every record in insertion order.
func (m *MemoryRepository[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].Clone())
	}
	return out
}

// remove must be called with the write lock held.
func (m *MemoryRepository[T]) remove(id uuid.UUID) {
	delete(m.records, id)
	if idx := slices.Index(m.order, id); idx >= 0 {
		m.order = slices.Delete(m.order, idx, idx+1)
	}
}
