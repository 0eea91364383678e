package reflector

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromCacheMetrics is a prometheus-backed CacheMetrics.
type PromCacheMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	builds prometheus.Histogram
}

// NewPromCacheMetrics creates the cache collectors and registers them on
// reg.
func NewPromCacheMetrics(reg prometheus.Registerer, namespace string) (*PromCacheMetrics, error) {
	m := &PromCacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reflector_cache",
			Name:      "hits_total",
			Help:      "Reflector cache lookups served from a built entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reflector_cache",
			Name:      "misses_total",
			Help:      "Reflector cache lookups that required a build.",
		}),
		builds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reflector_cache",
			Name:      "build_seconds",
			Help:      "Duration of Reflector constructions.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.builds} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register reflector cache metric: %w", err)
		}
	}

	return m, nil
}

func (m *PromCacheMetrics) Hit()                  { m.hits.Inc() }
func (m *PromCacheMetrics) Miss()                 { m.misses.Inc() }
func (m *PromCacheMetrics) Build(d time.Duration) { m.builds.Observe(d.Seconds()) }
