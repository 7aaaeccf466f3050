package cache

import (
	"context"
	"time"

	"github.com/golang/snappy"
)

// Compressed snappy-compresses entries before handing them to the wrapped
// cache. Layout results are repetitive JSON and shrink several-fold, which
// matters for the remote backends.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps c.
func NewCompressed(c Cache) *Compressed { return &Compressed{inner: c} }

// Get decodes the stored block. An undecodable entry is deleted and
// reported as a miss.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

func (c *Compressed) Delete(ctx context.Context, key string) error { return c.inner.Delete(ctx, key) }
func (c *Compressed) Close() error                                 { return c.inner.Close() }

var _ Cache = (*Compressed)(nil)
