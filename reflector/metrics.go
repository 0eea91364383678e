package reflector

import "time"

// CacheMetrics receives Factory cache events. Implementations must be safe
// for concurrent use. The core depends only on this interface so any
// instrumentation backend can plug in.
type CacheMetrics interface {
	// Hit records a cache lookup served from an already-built entry.
	Hit()
	// Miss records a cache lookup that needed a build.
	Miss()
	// Build records the duration of one Reflector construction.
	Build(d time.Duration)
}

type nopCacheMetrics struct{}

func (nopCacheMetrics) Hit()                {}
func (nopCacheMetrics) Miss()               {}
func (nopCacheMetrics) Build(time.Duration) {}

// NopCacheMetrics returns a no-op CacheMetrics.
func NopCacheMetrics() CacheMetrics { return nopCacheMetrics{} }
