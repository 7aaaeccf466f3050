package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/autolayout/pkg/observability"
)

// Observed reports every lookup and store of the wrapped cache to the
// registered [observability.CacheHooks].
type Observed struct {
	inner Cache
}

// NewObserved wraps c.
func NewObserved(c Cache) *Observed { return &Observed{inner: c} }

func (c *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

func (c *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func (c *Observed) Delete(ctx context.Context, key string) error { return c.inner.Delete(ctx, key) }
func (c *Observed) Close() error                                 { return c.inner.Close() }

// keyType recovers the key type from a key built by a [Keyer], ignoring any
// scope prefix.
func keyType(key string) string {
	for _, t := range []string{KeyTypeLayout, KeyTypePreview} {
		if strings.Contains(key, t+":") {
			return t
		}
	}
	return "other"
}

var _ Cache = (*Observed)(nil)
