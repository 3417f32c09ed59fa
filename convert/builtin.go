package convert

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry with the built-in converters:
// time.Time as an RFC 3339 string that becomes a Date on the host side,
// and *url.URL as its string form.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltins(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// RegisterBuiltins adds the built-in converters to reg.
func RegisterBuiltins(reg *Registry) error {
	err := Register(reg, timeToHost, timeFromHost,
		WithPreFilter("value instanceof Date ? value.toISOString() : value"),
		WithPostFilter("new Date(value)"))
	if err != nil {
		return err
	}
	return Register(reg, urlToHost, urlFromHost)
}

func timeToHost(t time.Time) (any, error) {
	return t.UTC().Format(time.RFC3339Nano), nil
}

func timeFromHost(v any) (time.Time, error) {
	switch x := v.(type) {
	case string:
		return time.Parse(time.RFC3339Nano, x)
	case time.Time:
		return x, nil
	case float64:
		return time.UnixMilli(int64(x)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
}

func urlToHost(u *url.URL) (any, error) {
	if u == nil {
		return nil, nil
	}
	return u.String(), nil
}

func urlFromHost(v any) (*url.URL, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return url.Parse(x)
	default:
		return nil, fmt.Errorf("cannot convert %T to URL", v)
	}
}
