package store

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// BunOptions extends Options with what the SQL implementation needs.
type BunOptions[T any] struct {
	Options[T]
	// New returns an empty record; it also identifies the table.
	New func() T
	// Identifier is the natural key column served by GetByIdentifier, "id" when
	// empty.
	Identifier      string
	IdentifierValue func(T) string
	// UpdateColumns limits Update to these columns; all columns when empty.
	UpdateColumns []string
	// StatusColumn defaults to "status".
	StatusColumn string
	Cache        cache.CacheService
	Serializer   cache.KeySerializer
}

// BunRepository persists records through go-repository-bun. Point reads go
// through the optional read-through cache; list queries always hit the
// database.
type BunRepository[T Model[T]] struct {
	db          *bun.DB
	base        repository.Repository[T]
	reads       repository.Repository[T]
	opts        BunOptions[T]
	cachePrefix string
}

// NewBunRepository wires a bun-backed repository for T.
func NewBunRepository[T Model[T]](db *bun.DB, opts BunOptions[T]) *BunRepository[T] {
	identifier := opts.Identifier
	if identifier == "" {
		identifier = "id"
	}
	identifierValue := opts.IdentifierValue
	if identifierValue == nil {
		identifierValue = func(record T) string { return record.GetID().String() }
	}

	base := repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: opts.New,
		GetID: func(record T) uuid.UUID {
			return record.GetID()
		},
		SetID: func(record T, id uuid.UUID) {
			record.SetID(id)
		},
		GetIdentifier: func() string {
			return identifier
		},
		GetIdentifierValue: identifierValue,
	})

	repo := &BunRepository[T]{db: db, base: base, reads: base, opts: opts}
	if opts.Cache != nil && opts.Serializer != nil {
		scoped, prefix := namespaceCache(opts.Cache, opts.Resource)
		repo.reads = repositorycache.New(base, scoped, opts.Serializer)
		repo.cachePrefix = prefix
	}
	return repo
}

func (r *BunRepository[T]) Create(ctx context.Context, record T) (T, error) {
	if record.GetID() == uuid.Nil {
		record.SetID(uuid.New())
	}
	created, err := r.base.Create(ctx, record)
	if err != nil {
		var zero T
		return zero, r.mapError(err, record.GetID().String())
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *BunRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := r.reads.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, r.mapError(err, id.String())
	}
	return r.detach(record), nil
}

// GetByIdentifier loads a record by its natural key.
func (r *BunRepository[T]) GetByIdentifier(ctx context.Context, value string) (T, error) {
	record, err := r.reads.GetByIdentifier(ctx, value)
	if err != nil {
		var zero T
		return zero, r.mapError(err, value)
	}
	return r.detach(record), nil
}

func (r *BunRepository[T]) FindOne(ctx context.Context, column, value string) (T, error) {
	var zero T
	if _, ok := r.opts.Lookups[column]; !ok {
		return zero, ErrLookupUnsupported
	}
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("? = ?", bun.Ident(column), value)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return zero, r.mapError(err, value)
	}
	if len(records) == 0 {
		return zero, &NotFoundError{Resource: r.opts.Resource, Key: value}
	}
	return records[0], nil
}

func (r *BunRepository[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	id := record.GetID()
	if _, err := r.base.GetByID(ctx, id.String()); err != nil {
		return zero, r.mapError(err, id.String())
	}

	criteria := []repository.UpdateCriteria{repository.UpdateByID(id.String())}
	switch {
	case len(r.opts.UpdateColumns) > 0:
		criteria = append(criteria, repository.UpdateColumns(r.opts.UpdateColumns...))
	case len(r.opts.Counters) > 0:
		// counters only change through Increment
		criteria = append(criteria, repository.UpdateExcludeColumns(r.counterColumns()...))
	}
	updated, err := r.base.Update(ctx, record, criteria...)
	if err != nil {
		return zero, r.mapError(err, id.String())
	}
	r.invalidate(ctx)
	if len(r.opts.Counters) > 0 {
		if fresh, err := r.base.GetByID(ctx, id.String()); err == nil {
			return fresh, nil
		}
	}
	return updated, nil
}

func (r *BunRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := r.base.GetByID(ctx, id.String())
	if err != nil {
		return r.mapError(err, id.String())
	}
	if err := r.base.Delete(ctx, record); err != nil {
		return r.mapError(err, id.String())
	}
	r.invalidate(ctx)
	return nil
}

func (r *BunRepository[T]) List(ctx context.Context, q listing.Query) (listing.Result[T], error) {
	q = q.Normalized()
	records, total, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(sel *bun.SelectQuery) *bun.SelectQuery {
			return listing.ApplyBun(sel, r.opts.Spec, q)
		}),
		repository.SelectPaginate(q.Limit, q.Offset()),
	)
	if err != nil {
		return listing.Result[T]{}, r.mapError(err, "")
	}
	return listing.Result[T]{
		Items:      records,
		Pagination: shared.CalculatePagination(total, q.Page, q.Limit),
	}, nil
}

func (r *BunRepository[T]) Find(ctx context.Context, q listing.Query) ([]T, error) {
	q = q.Normalized()
	var records []T
	sel := r.db.NewSelect().Model(&records)
	if err := listing.ApplyBun(sel, r.opts.Spec, q).Scan(ctx); err != nil {
		return nil, r.mapError(err, "")
	}
	return records, nil
}

func (r *BunRepository[T]) UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	if r.opts.SetStatus == nil {
		return 0, ErrStatusUnsupported
	}
	if len(ids) == 0 {
		return 0, nil
	}
	column := r.opts.StatusColumn
	if column == "" {
		column = "status"
	}
	res, err := r.db.NewUpdate().
		Model(r.opts.New()).
		Set("? = ?", bun.Ident(column), status).
		Set("updated_at = ?", r.opts.now()).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s bulk status: %w", r.opts.Resource, err)
	}
	r.invalidate(ctx)
	return affected(res), nil
}

func (r *BunRepository[T]) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.NewDelete().
		Model(r.opts.New()).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s bulk delete: %w", r.opts.Resource, err)
	}
	r.invalidate(ctx)
	return affected(res), nil
}

func (r *BunRepository[T]) Increment(ctx context.Context, id uuid.UUID, column string, delta int) (int, error) {
	if _, ok := r.opts.Counters[column]; !ok {
		return 0, ErrCounterUnsupported
	}
	res, err := r.db.NewUpdate().
		Model(r.opts.New()).
		Set("? = ? + ?", bun.Ident(column), bun.Ident(column), delta).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s increment %s: %w", r.opts.Resource, column, err)
	}
	if affected(res) == 0 {
		return 0, &NotFoundError{Resource: r.opts.Resource, Key: id.String()}
	}
	r.invalidate(ctx)

	var value int
	if err := r.db.NewSelect().
		Model(r.opts.New()).
		Column(column).
		Where("id = ?", id).
		Scan(ctx, &value); err != nil {
		return 0, fmt.Errorf("%s increment %s: %w", r.opts.Resource, column, err)
	}
	return value, nil
}

// InvalidateCache drops every cached read for the resource. Writes call it
// after they succeed, including the bulk statements that bypass the cached
// repository.
func (r *BunRepository[T]) InvalidateCache(ctx context.Context) error {
	if r.opts.Cache == nil || r.cachePrefix == "" {
		return nil
	}
	return r.opts.Cache.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunRepository[T]) counterColumns() []string {
	columns := make([]string, 0, len(r.opts.Counters))
	for column := range r.opts.Counters {
		columns = append(columns, column)
	}
	return columns
}

// detach copies records served from the cache so callers never mutate the
// cached value.
func (r *BunRepository[T]) detach(record T) T {
	if r.cachePrefix == "" {
		return record
	}
	return record.Clone()
}

func (r *BunRepository[T]) invalidate(ctx context.Context) {
	// stale entries expire with the cache ttl if invalidation fails
	_ = r.InvalidateCache(ctx)
}

func (r *BunRepository[T]) mapError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: r.opts.Resource, Key: key}
	}
	return fmt.Errorf("%s repository: %w", r.opts.Resource, err)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func affected(res rowsAffected) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
