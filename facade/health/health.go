package health

import (
	"context"
	"sync"
	"time"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/log"
)

// Backend is a downstream service whose reachability is reported on /_health.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
}

type checkCache struct {
	results   map[string]string
	ok        bool
	timestamp time.Time
	mu        sync.RWMutex
}

type HealthChecker struct {
	backends []Backend
	timeout  time.Duration
	ttl      time.Duration
	cache    *checkCache
}

func NewHealthChecker(timeout time.Duration, backends ...Backend) HealthChecker {
	return HealthChecker{
		backends: backends,
		timeout:  timeout,
		ttl:      time.Duration(conf.GetEnvInt("FACADE_HEALTH_CACHE_SECONDS", 10)) * time.Second,
		cache:    &checkCache{},
	}
}

// CheckBackends pings every backend and reports "ok" or "unreachable" for each
// one. Results are cached for FACADE_HEALTH_CACHE_SECONDS.
func (h HealthChecker) CheckBackends(ctx context.Context) (map[string]string, bool) {
	h.cache.mu.RLock()
	if h.cache.timestamp.Add(h.ttl).After(time.Now()) {
		results, ok := h.cache.results, h.cache.ok
		h.cache.mu.RUnlock()
		return results, ok
	}
	h.cache.mu.RUnlock()

	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()

	// Double-check after acquiring write lock
	if h.cache.timestamp.Add(h.ttl).After(time.Now()) {
		return h.cache.results, h.cache.ok
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.backends))
	ok := true
	for _, b := range h.backends {
		if err := b.Ping(ctx); err != nil {
			log.API.Errorf("Health check: %s backend unreachable: %s", b.Name(), err.Error())
			results[b.Name()] = "unreachable"
			ok = false
			continue
		}
		results[b.Name()] = "ok"
	}

	h.cache.results = results
	h.cache.ok = ok
	h.cache.timestamp = time.Now()
	return results, ok
}
