package store

import (
	"context"

	cache "github.com/goliatone/go-repository-cache/cache"
)

// namespacedCache scopes a shared cache service to one resource. Keys written
// by repositorycache start with the snake-cased model type name, which is not
// unique across resources (content.Entry and activity.Entry are both "entry").
type namespacedCache struct {
	inner  cache.CacheService
	prefix string
}

// namespacedTagCache also forwards tag registration when the service supports
// it.
type namespacedTagCache struct {
	namespacedCache
	tags cache.TagRegistry
}

func namespaceCache(service cache.CacheService, resource string) (cache.CacheService, string) {
	prefix := resource + cache.KeySeparator
	scoped := namespacedCache{inner: service, prefix: prefix}
	if tags, ok := service.(cache.TagRegistry); ok {
		return namespacedTagCache{namespacedCache: scoped, tags: tags}, prefix
	}
	return scoped, prefix
}

func (c namespacedCache) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	return c.inner.GetOrFetch(ctx, c.prefix+key, fetchFn)
}

func (c namespacedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

func (c namespacedCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.inner.DeleteByPrefix(ctx, c.prefix+prefix)
}

func (c namespacedCache) InvalidateKeys(ctx context.Context, keys []string) error {
	return c.inner.InvalidateKeys(ctx, c.scoped(keys))
}

func (c namespacedCache) scoped(values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = c.prefix + value
	}
	return out
}

func (c namespacedTagCache) AddTags(ctx context.Context, key string, tags []string) error {
	return c.tags.AddTags(ctx, c.prefix+key, c.scoped(tags))
}

func (c namespacedTagCache) InvalidateTags(ctx context.Context, tags []string) error {
	return c.tags.InvalidateTags(ctx, c.scoped(tags))
}
