// Package metrics holds the Prometheus collectors of the service. Label sets
// are bounded: transaction kind and phase, cache name and lookup result, and
// the registered gin route.
package metrics

import (
	"strconv"
	"time"

	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	CacheBaseURI  = "base_uri"
	CacheMetadata = "metadata"

	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultExpired = "expired"
)

var (
	txTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_transaction_transitions_total",
			Help: "Transaction phase changes by kind and phase.",
		},
		[]string{"kind", "phase"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_cache_lookups_total",
			Help: "Metadata cache lookups by cache and result.",
		},
		[]string{"cache", "result"},
	)

	cacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "minter_cache_evictions_total",
			Help: "Cache entries removed by the expiry sweep.",
		},
	)

	metadataFetch = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minter_metadata_fetch_duration_seconds",
			Help:    "Duration of remote metadata fetches.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(txTransitions, cacheLookups, cacheEvictions, metadataFetch, httpReqs, httpLat)
}

func CacheLookup(cache, result string) {
	cacheLookups.WithLabelValues(cache, result).Inc()
}

func CacheEvicted(n int) {
	cacheEvictions.Add(float64(n))
}

// MetadataFetched records one remote fetch started at start.
func MetadataFetched(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metadataFetch.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// TransitionObserver counts every transaction phase change.
type TransitionObserver struct{}

var _ domain.TransitionObserver = TransitionObserver{}

func (TransitionObserver) OnTransition(tx domain.TransactionState, _ domain.Notification) {
	txTransitions.WithLabelValues(string(tx.Kind), string(tx.Phase)).Inc()
}

// Middleware instruments requests by method, route and status.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
