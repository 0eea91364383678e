package reflector

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Factory builds and caches one Reflector per type. An entry is published
// only after construction completes; concurrent first access for the same
// type performs a single build and every caller observes the finished entry.
type Factory struct {
	mu      sync.RWMutex
	cache   map[reflect.Type]*Reflector
	group   singleflight.Group
	intro   Introspector
	metrics CacheMetrics
	logger  *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithIntrospector replaces the introspector used for every build.
func WithIntrospector(intro Introspector) FactoryOption {
	return func(f *Factory) { f.intro = intro }
}

// WithCacheMetrics wires an instrumentation backend for cache events.
func WithCacheMetrics(m CacheMetrics) FactoryOption {
	return func(f *Factory) { f.metrics = m }
}

// WithLogger enables build logging on the given logger.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) { f.logger = logger }
}

// NewFactory creates an empty Factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		cache:   make(map[reflect.Type]*Reflector),
		intro:   DefaultIntrospector(),
		metrics: NopCacheMetrics(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ForType returns the Reflector for t, building and caching it on first
// access.
func (f *Factory) ForType(t reflect.Type) *Reflector {
	f.mu.RLock()
	r, ok := f.cache[t]
	f.mu.RUnlock()

	if ok {
		f.metrics.Hit()
		return r
	}
	f.metrics.Miss()

	v, _, _ := f.group.Do(typeName(t), func() (any, error) {
		// Another goroutine may have published while we queued on the key.
		f.mu.RLock()
		r, ok := f.cache[t]
		f.mu.RUnlock()
		if ok {
			return r, nil
		}

		start := time.Now()
		built := NewWithIntrospector(t, f.intro)
		elapsed := time.Since(start)

		f.metrics.Build(elapsed)
		if f.logger != nil {
			f.logger.Debug("reflector built",
				slog.String("type", typeName(t)),
				slog.Int("readable", len(built.readable)),
				slog.Int("writable", len(built.writable)),
				slog.Duration("elapsed", elapsed))
		}

		f.mu.Lock()
		f.cache[t] = built
		f.mu.Unlock()

		return built, nil
	})

	return v.(*Reflector)
}

// For returns the Reflector for the dynamic type of x, unwrapping one
// pointer level so a value and a pointer to it share the entry.
func (f *Factory) For(x any) *Reflector {
	t := reflect.TypeOf(x)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return f.ForType(t)
}

var defaultFactory = NewFactory()

// Default returns the process-wide Factory.
func Default() *Factory { return defaultFactory }

// For returns the Reflector for the dynamic type of x from the process-wide
// Factory.
func For(x any) *Reflector { return defaultFactory.For(x) }

// ForType returns the Reflector for t from the process-wide Factory.
func ForType(t reflect.Type) *Reflector { return defaultFactory.ForType(t) }
