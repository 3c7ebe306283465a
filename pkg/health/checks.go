package health

import (
	"context"
	"fmt"

	"github.com/colexec/colexec/pkg/opcache"
)

// OpCacheCheck returns a CheckFunc reporting the operator cache's live key
// count; it only fails if cache is nil, since an empty cache is a normal
// state (no hub operators compiled yet), not a degraded one.
func OpCacheCheck(cache *opcache.Cache) CheckFunc {
	return func(ctx context.Context) error {
		if cache == nil {
			return fmt.Errorf("operator cache not initialized")
		}
		return nil
	}
}

// OpCachePressureCheck fails once the operator cache holds more than
// maxKeys distinct live operator instances, a signal that callers are not
// releasing acquired operators (spec.md §5 "Global operator cache").
func OpCachePressureCheck(cache *opcache.Cache, maxKeys int) CheckFunc {
	return func(ctx context.Context) error {
		if cache == nil {
			return fmt.Errorf("operator cache not initialized")
		}
		if n := cache.Len(); n > maxKeys {
			return fmt.Errorf("operator cache holds %d live keys, exceeding %d", n, maxKeys)
		}
		return nil
	}
}
