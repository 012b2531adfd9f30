package client

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

var (
	// ErrStale is returned by Refresh when a newer refresh started before
	// this one finished. The stale page is discarded.
	ErrStale = errors.New("client: response superseded by a newer request")
	// ErrNothingSelected is returned by RunBulk with an empty selection.
	ErrNothingSelected = errors.New("client: no rows selected")
)

// Fetcher loads one page for the given filters, typically Resource.List.
type Fetcher[T any] func(ctx context.Context, params ListParams) (Page[T], error)

// BulkAction applies an action to the selected ids and returns how many
// rows it changed.
type BulkAction func(ctx context.Context, ids []uuid.UUID) (int, error)

// ListController holds the state of one admin list page: filters, the
// current page of rows, and the bulk selection. It is safe for concurrent
// use.
type ListController[T any] struct {
	mu         sync.Mutex
	fetch      Fetcher[T]
	idOf       func(T) uuid.UUID
	params     ListParams
	items      []T
	pagination shared.PageMeta
	err        error
	loading    bool
	generation uint64
	selected   map[uuid.UUID]struct{}
	bulk       Guard
}

// NewListController builds a controller starting on page 1 with params as
// the initial filters.
func NewListController[T any](fetch Fetcher[T], idOf func(T) uuid.UUID, params ListParams) *ListController[T] {
	params.Page = shared.DefaultPage
	return &ListController[T]{
		fetch:    fetch,
		idOf:     idOf,
		params:   params,
		selected: map[uuid.UUID]struct{}{},
	}
}

// Params returns the filters the next Refresh will send.
func (l *ListController[T]) Params() ListParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

func (l *ListController[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params.Page
}

// SetPage moves to page and leaves the filters alone.
func (l *ListController[T]) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.params.Page = shared.ClampPage(page)
}

func (l *ListController[T]) SetSearch(search string) {
	l.update(func(p *ListParams) { p.Search = search })
}

func (l *ListController[T]) SetStatus(status string) {
	l.update(func(p *ListParams) { p.Status = status })
}

func (l *ListController[T]) SetType(kind string) {
	l.update(func(p *ListParams) { p.Type = kind })
}

func (l *ListController[T]) SetDateRange(from, to *time.Time) {
	l.update(func(p *ListParams) {
		p.From = from
		p.To = to
	})
}

func (l *ListController[T]) SetSort(sort string) {
	l.update(func(p *ListParams) { p.Sort = sort })
}

func (l *ListController[T]) SetLimit(limit int) {
	l.update(func(p *ListParams) { p.Limit = limit })
}

// SetFilter sets a resource specific filter such as namespace.
func (l *ListController[T]) SetFilter(key string, value any) {
	l.update(func(p *ListParams) {
		p.Extra = slices.Clone(p.Extra).Set(key, value)
	})
}

// update applies a filter change and returns to the first page.
func (l *ListController[T]) update(fn func(*ListParams)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.params)
	l.params.Page = shared.DefaultPage
}

// Refresh fetches the page for the current filters. When another Refresh
// starts before this one returns, this result is dropped and ErrStale is
// returned, so rows never go back to an older filter state.
func (l *ListController[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	generation := l.generation
	params := l.params
	l.loading = true
	l.mu.Unlock()

	page, err := l.fetch(ctx, params)

	l.mu.Lock()
	defer l.mu.Unlock()
	if generation != l.generation {
		return ErrStale
	}
	l.loading = false
	if err != nil {
		l.err = err
		return err
	}
	l.err = nil
	l.items = page.Items
	l.pagination = page.Pagination
	l.pruneSelection()
	return nil
}

// Items returns a copy of the visible rows.
func (l *ListController[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *ListController[T]) Pagination() shared.PageMeta {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pagination
}

// Err is the error of the last completed Refresh, if it failed.
func (l *ListController[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *ListController[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Toggle flips the selection of id and reports whether it is now selected.
func (l *ListController[T]) Toggle(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return false
	}
	l.selected[id] = struct{}{}
	return true
}

func (l *ListController[T]) IsSelected(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.selected[id]
	return ok
}

// SelectAll selects exactly the visible rows and returns how many.
func (l *ListController[T]) SelectAll() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[uuid.UUID]struct{}, len(l.items))
	for _, item := range l.items {
		l.selected[l.idOf(item)] = struct{}{}
	}
	return len(l.selected)
}

func (l *ListController[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.selected)
}

// Selected returns the selected ids in row order.
func (l *ListController[T]) Selected() []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedIDs()
}

// RunBulk runs action on the selection. A second RunBulk while one is in
// flight returns ErrBusy. On success the selection is cleared and the page
// refetched; the refetch error, if any, is returned with the count.
func (l *ListController[T]) RunBulk(ctx context.Context, action BulkAction) (int, error) {
	var count int
	err := l.bulk.Do(func() error {
		l.mu.Lock()
		ids := l.selectedIDs()
		l.mu.Unlock()
		if len(ids) == 0 {
			return ErrNothingSelected
		}

		n, err := action(ctx, ids)
		if err != nil {
			return err
		}
		count = n
		l.Clear()
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, l.Refresh(ctx)
}

// BulkBusy reports whether a bulk action is in flight.
func (l *ListController[T]) BulkBusy() bool {
	return l.bulk.Busy()
}

func (l *ListController[T]) selectedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.selected))
	for _, item := range l.items {
		id := l.idOf(item)
		if _, ok := l.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// pruneSelection drops selected ids that are no longer visible.
func (l *ListController[T]) pruneSelection() {
	visible := make(map[uuid.UUID]struct{}, len(l.items))
	for _, item := range l.items {
		visible[l.idOf(item)] = struct{}{}
	}
	for id := range l.selected {
		if _, ok := visible[id]; !ok {
			delete(l.selected, id)
		}
	}
}
