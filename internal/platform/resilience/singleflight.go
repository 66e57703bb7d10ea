package resilience

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Flight collapses concurrent loads of the same key into one call whose
// result every waiter shares. A panicking load becomes an error for all
// waiters instead of crashing each of them.
type Flight[T any] struct {
	group singleflight.Group
}

func (f *Flight[T]) Do(key string, fn func() (T, error)) (T, bool, error) {
	out, err, shared := f.group.Do(key, func() (value any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				value, err = nil, fmt.Errorf("load %q panicked: %v", key, rec)
			}
		}()
		return fn()
	})

	var zero T
	if err != nil {
		return zero, shared, err
	}
	value, ok := out.(T)
	if !ok && out != nil {
		return zero, shared, fmt.Errorf("load %q returned %T", key, out)
	}
	return value, shared, nil
}
